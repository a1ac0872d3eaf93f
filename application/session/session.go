package session

import (
	"context"
	"time"

	"github.com/kakilabs/kaki-backend/constant"
	"github.com/kakilabs/kaki-backend/model"
	redisrepo "github.com/kakilabs/kaki-backend/repository/redis"
	userrepo "github.com/kakilabs/kaki-backend/repository/user"
	"github.com/kakilabs/kaki-backend/utils/errors"
	"github.com/kakilabs/kaki-backend/utils/logger"
	"go.uber.org/zap"
)

// SessionApp manages the per-device session record that decides whether
// a cold start lands on the home screen or back on onboarding. The
// record is only a pointer; Restore re-validates it against the user
// directory and self-heals stale entries.
type SessionApp interface {
	Save(ctx context.Context, deviceID string, user *model.UserEntity) (*model.SessionRecord, error)
	Load(ctx context.Context, deviceID string) (*model.SessionRecord, error)
	Clear(ctx context.Context, deviceID string) error
	Restore(ctx context.Context, deviceID string) (*model.UserEntity, error)
}

type SessionAppImpl struct {
	userRepo  userrepo.UserRepository
	redisRepo redisrepo.Repository
}

func NewSessionApp(userRepo userrepo.UserRepository, redisRepo redisrepo.Repository) SessionApp {
	return &SessionAppImpl{
		userRepo:  userRepo,
		redisRepo: redisRepo,
	}
}

func (s *SessionAppImpl) Save(ctx context.Context, deviceID string, user *model.UserEntity) (*model.SessionRecord, error) {
	record := &model.SessionRecord{
		UserID:      user.ID,
		Name:        user.Name,
		PhoneNumber: user.PhoneNumber,
		CountryCode: user.CountryCode,
		LastLogin:   time.Now().UTC(),
	}

	if err := s.redisRepo.SaveDeviceSession(ctx, deviceID, record); err != nil {
		logger.Error("[Save] err SaveDeviceSession", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return record, nil
}

func (s *SessionAppImpl) Load(ctx context.Context, deviceID string) (*model.SessionRecord, error) {
	record, err := s.redisRepo.GetDeviceSession(ctx, deviceID)
	if err != nil {
		logger.Error("[Load] err GetDeviceSession", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return record, nil
}

func (s *SessionAppImpl) Clear(ctx context.Context, deviceID string) error {
	if err := s.redisRepo.DeleteDeviceSession(ctx, deviceID); err != nil {
		logger.Error("[Clear] err DeleteDeviceSession", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

// Restore resolves the stored record against the user directory. A
// stale pointer (user gone or deactivated) clears the record and
// reports no session, so the caller falls back to onboarding.
func (s *SessionAppImpl) Restore(ctx context.Context, deviceID string) (*model.UserEntity, error) {
	record, err := s.redisRepo.GetDeviceSession(ctx, deviceID)
	if err != nil {
		logger.Error("[Restore] err GetDeviceSession", zap.String("error", err.Error()))
		return nil, nil
	}
	if record == nil {
		return nil, nil
	}

	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: record.UserID, ActiveOnly: true})
	if err != nil {
		logger.Error("[Restore] err userRepo.Get", zap.String("error", err.Error()))
		_ = s.redisRepo.DeleteDeviceSession(ctx, deviceID)
		return nil, nil
	}
	if user == nil {
		logger.Info("[Restore] stale session cleared", zap.String("device_id", deviceID), zap.Uint64("user_id", record.UserID))
		if err := s.redisRepo.DeleteDeviceSession(ctx, deviceID); err != nil {
			logger.Error("[Restore] err DeleteDeviceSession", zap.String("error", err.Error()))
		}
		return nil, nil
	}

	return user, nil
}
