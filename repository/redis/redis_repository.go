package redis

import (
	"context"
	"encoding/json"
	"time"

	redisclient "github.com/kakilabs/kaki-backend/cmd/redis"
	"github.com/kakilabs/kaki-backend/constant"
	"github.com/kakilabs/kaki-backend/model"
	goredis "github.com/redis/go-redis/v9"
)

// Repository defines methods for interacting with Redis key-values.
// It covers the per-device session record (the app's "local storage")
// and the auth session keys backing issued tokens.
type Repository interface {
	SaveDeviceSession(ctx context.Context, deviceID string, record *model.SessionRecord) error
	GetDeviceSession(ctx context.Context, deviceID string) (*model.SessionRecord, error)
	DeleteDeviceSession(ctx context.Context, deviceID string) error
	SetSession(ctx context.Context, sessionID string, userID uint64, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (uint64, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type redis struct {
}

// NewRepository returns a Redis Repository implementation
func NewRepository() Repository {
	return &redis{}
}

// SaveDeviceSession overwrites the single session record for a device.
func (r *redis) SaveDeviceSession(ctx context.Context, deviceID string, record *model.SessionRecord) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := constant.DeviceSessionKeyPrefix + deviceID
	return client.Set(ctx, key, payload, constant.DeviceSessionTTL).Err()
}

// GetDeviceSession returns the stored record, or nil when the device has none.
func (r *redis) GetDeviceSession(ctx context.Context, deviceID string) (*model.SessionRecord, error) {
	client := redisclient.Get()
	if client == nil {
		return nil, nil
	}
	key := constant.DeviceSessionKeyPrefix + deviceID
	payload, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var record model.SessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteDeviceSession clears the session record for a device.
func (r *redis) DeleteDeviceSession(ctx context.Context, deviceID string) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.Del(ctx, constant.DeviceSessionKeyPrefix+deviceID).Err()
}

// SetSession stores an auth session with userID and TTL
func (r *redis) SetSession(ctx context.Context, sessionID string, userID uint64, ttl time.Duration) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	key := "session:" + sessionID
	return client.Set(ctx, key, userID, ttl).Err()
}

// GetSession retrieves userID from an auth session
func (r *redis) GetSession(ctx context.Context, sessionID string) (uint64, error) {
	client := redisclient.Get()
	if client == nil {
		return 0, nil
	}
	key := "session:" + sessionID
	val, err := client.Get(ctx, key).Uint64()
	if err != nil {
		return 0, err
	}
	return val, nil
}

// DeleteSession removes an auth session
func (r *redis) DeleteSession(ctx context.Context, sessionID string) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	key := "session:" + sessionID
	return client.Del(ctx, key).Err()
}
