package context

import (
	"context"

	"github.com/kakilabs/kaki-backend/constant"
)

func GetUserID(ctx context.Context) (uint64, bool) {
	v := ctx.Value(constant.UserIDKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

func GetDeviceID(ctx context.Context) (string, bool) {
	v := ctx.Value(constant.DeviceIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
