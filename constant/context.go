package constant

type contextKey string

const (
	// UserIDKey carries the authenticated user id in a request context.
	UserIDKey contextKey = "user_id"
	// DeviceIDKey carries the caller's device id in a request context.
	DeviceIDKey contextKey = "device_id"
)
