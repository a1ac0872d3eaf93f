package session_test

import (
	"context"
	"errors"
	"testing"

	appsession "github.com/kakilabs/kaki-backend/application/session"
	redismocks "github.com/kakilabs/kaki-backend/mocks/repository/redis"
	usermocks "github.com/kakilabs/kaki-backend/mocks/repository/user"
	"github.com/kakilabs/kaki-backend/model"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionApp_Restore(t *testing.T) {
	type fields struct {
		userRepo  *usermocks.UserRepository
		redisRepo *redismocks.RedisRepository
	}
	tests := []struct {
		name     string
		fields   fields
		deviceID string
		mockCall func(f fields)
		wantUser *model.UserEntity
	}{
		{
			name: "success: live session restores user",
			fields: fields{
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			deviceID: "device-1",
			mockCall: func(f fields) {
				f.redisRepo.
					On("GetDeviceSession", mock.Anything, "device-1").
					Return(&model.SessionRecord{UserID: 1, Name: "Jane", PhoneNumber: "91234567"}, nil).
					Once()
				f.userRepo.
					On("Get", mock.Anything, &model.UserFilter{ID: 1, ActiveOnly: true}).
					Return(&model.UserEntity{ID: 1, Name: "Jane", PhoneNumber: "91234567", IsActive: true}, nil).
					Once()
			},
			wantUser: &model.UserEntity{ID: 1, Name: "Jane", PhoneNumber: "91234567", IsActive: true},
		},
		{
			name: "none: no record for device",
			fields: fields{
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			deviceID: "device-2",
			mockCall: func(f fields) {
				f.redisRepo.
					On("GetDeviceSession", mock.Anything, "device-2").
					Return(nil, nil).
					Once()
			},
			wantUser: nil,
		},
		{
			name: "none: stale record cleared when user deactivated",
			fields: fields{
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			deviceID: "device-3",
			mockCall: func(f fields) {
				f.redisRepo.
					On("GetDeviceSession", mock.Anything, "device-3").
					Return(&model.SessionRecord{UserID: 9, Name: "Gone", PhoneNumber: "90000000"}, nil).
					Once()
				f.userRepo.
					On("Get", mock.Anything, &model.UserFilter{ID: 9, ActiveOnly: true}).
					Return(nil, nil).
					Once()
				f.redisRepo.
					On("DeleteDeviceSession", mock.Anything, "device-3").
					Return(nil).
					Once()
			},
			wantUser: nil,
		},
		{
			name: "none: directory error clears record",
			fields: fields{
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			deviceID: "device-4",
			mockCall: func(f fields) {
				f.redisRepo.
					On("GetDeviceSession", mock.Anything, "device-4").
					Return(&model.SessionRecord{UserID: 5}, nil).
					Once()
				f.userRepo.
					On("Get", mock.Anything, &model.UserFilter{ID: 5, ActiveOnly: true}).
					Return(nil, errors.New("dial tcp: connection refused")).
					Once()
				f.redisRepo.
					On("DeleteDeviceSession", mock.Anything, "device-4").
					Return(nil).
					Once()
			},
			wantUser: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockCall(tt.fields)

			app := appsession.NewSessionApp(tt.fields.userRepo, tt.fields.redisRepo)
			got, err := app.Restore(context.Background(), tt.deviceID)

			require.NoError(t, err)
			require.Equal(t, tt.wantUser, got)
		})
	}
}

func TestSessionApp_SaveAndClear(t *testing.T) {
	userRepo := usermocks.NewUserRepository(t)
	redisRepo := redismocks.NewRedisRepository(t)

	user := &model.UserEntity{ID: 3, Name: "Jane", PhoneNumber: "91234567", CountryCode: "+65"}

	redisRepo.
		On("SaveDeviceSession", mock.Anything, "device-1", mock.MatchedBy(func(rec *model.SessionRecord) bool {
			return rec.UserID == 3 && rec.Name == "Jane" && rec.PhoneNumber == "91234567" && !rec.LastLogin.IsZero()
		})).
		Return(nil).
		Once()
	redisRepo.
		On("DeleteDeviceSession", mock.Anything, "device-1").
		Return(nil).
		Once()

	app := appsession.NewSessionApp(userRepo, redisRepo)

	record, err := app.Save(context.Background(), "device-1", user)
	require.NoError(t, err)
	require.Equal(t, uint64(3), record.UserID)

	require.NoError(t, app.Clear(context.Background(), "device-1"))
}
