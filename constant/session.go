package constant

import "time"

// DefaultCountryCode is prefixed to every onboarded phone number.
const DefaultCountryCode = "+65"

// PhoneDigits is the required length of a phone number after stripping
// everything that is not a digit.
const PhoneDigits = 8

// DeviceSessionKeyPrefix namespaces the per-device session record in redis.
const DeviceSessionKeyPrefix = "kaki:session:"

// DeviceSessionTTL bounds how long a device session survives without a
// fresh onboarding. Zero would keep stale pointers forever.
const DeviceSessionTTL = 90 * 24 * time.Hour
