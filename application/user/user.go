package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kakilabs/kaki-backend/cmd/config"
	"github.com/kakilabs/kaki-backend/constant"
	"github.com/kakilabs/kaki-backend/model"
	redisrepo "github.com/kakilabs/kaki-backend/repository/redis"
	userrepo "github.com/kakilabs/kaki-backend/repository/user"
	"github.com/kakilabs/kaki-backend/utils/errors"
	"github.com/kakilabs/kaki-backend/utils/logger"
	"go.uber.org/zap"
)

type UserApp interface {
	CreateOrUpdateUser(ctx context.Context, req *model.OnboardRequest) (*model.OnboardResponse, error)
	GetUserByID(ctx context.Context, id uint64) (*model.UserEntity, error)
	DeactivateUser(ctx context.Context, id uint64) error
	IssueToken(ctx context.Context, userID uint64) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (uint64, error)
}

type UserAppImpl struct {
	config    *config.Config
	userRepo  userrepo.UserRepository
	redisRepo redisrepo.Repository
}

func NewUserApp(config *config.Config, userRepo userrepo.UserRepository, redisRepo redisrepo.Repository) UserApp {
	return &UserAppImpl{
		config:    config,
		userRepo:  userRepo,
		redisRepo: redisRepo,
	}
}

// CreateOrUpdateUser onboards by name and phone. The normalized phone
// number is the natural key: an existing active row gets its name
// refreshed instead of a duplicate insert.
func (s *UserAppImpl) CreateOrUpdateUser(ctx context.Context, req *model.OnboardRequest) (*model.OnboardResponse, error) {
	name := strings.TrimSpace(req.Name)
	phone := NormalizePhone(req.PhoneNumber)

	if !ValidateName(name) || !ValidatePhone(phone) {
		return nil, errors.SetCustomError(constant.ErrValidation)
	}

	countryCode := req.CountryCode
	if countryCode == "" {
		countryCode = constant.DefaultCountryCode
	}

	existing, err := s.userRepo.Get(ctx, &model.UserFilter{PhoneNumber: phone, ActiveOnly: true})
	if err != nil {
		logger.Error("[CreateOrUpdateUser] err userRepo.Get phone", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrBackendUnavailable)
	}

	var entity *model.UserEntity
	created := false

	if existing != nil {
		if existing.Name != name {
			if err := s.userRepo.UpdateName(ctx, existing.ID, name); err != nil {
				logger.Error("[CreateOrUpdateUser] err userRepo.UpdateName", zap.String("error", err.Error()))
				return nil, errors.SetCustomError(constant.ErrBackendUnavailable)
			}
			existing.Name = name
		}
		entity = existing
	} else {
		entity, err = s.userRepo.Create(ctx, &model.UserEntity{
			Name:        name,
			PhoneNumber: phone,
			CountryCode: countryCode,
		})
		if err != nil {
			logger.Error("[CreateOrUpdateUser] err userRepo.Create", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrBackendUnavailable)
		}
		created = true
	}

	token, err := s.IssueToken(ctx, entity.ID)
	if err != nil {
		logger.Error("[CreateOrUpdateUser] err IssueToken", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.OnboardResponse{
		User:    entity,
		Token:   token,
		Created: created,
	}, nil
}

func (s *UserAppImpl) GetUserByID(ctx context.Context, id uint64) (*model.UserEntity, error) {
	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: id, ActiveOnly: true})
	if err != nil {
		logger.Error("[GetUserByID] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrBackendUnavailable)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	return user, nil
}

// DeactivateUser clears the active flag. Rows are never hard-deleted.
func (s *UserAppImpl) DeactivateUser(ctx context.Context, id uint64) error {
	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: id, ActiveOnly: true})
	if err != nil {
		logger.Error("[DeactivateUser] err userRepo.Get", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrBackendUnavailable)
	}
	if user == nil {
		return errors.SetCustomError(constant.ErrNotFound)
	}
	if err := s.userRepo.Deactivate(ctx, id); err != nil {
		logger.Error("[DeactivateUser] err userRepo.Deactivate", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrBackendUnavailable)
	}
	return nil
}

// IssueToken signs a JWT for the user and stores its jti in Redis so
// the session can be revoked server-side.
func (s *UserAppImpl) IssueToken(ctx context.Context, userID uint64) (string, error) {
	token, jti, err := s.generateJWT(userID)
	if err != nil {
		return "", err
	}

	if err := s.redisRepo.SetSession(ctx, jti, userID, s.config.Auth.SessionExpTime); err != nil {
		return "", err
	}

	return token, nil
}

func (s *UserAppImpl) ValidateToken(ctx context.Context, tokenString string) (uint64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Auth.JWTSecret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid claims")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id in token")
	}

	jti := claims.ID
	if jti == "" {
		return 0, fmt.Errorf("token missing jti")
	}

	redisUserID, err := s.redisRepo.GetSession(ctx, jti)
	if err != nil {
		return 0, fmt.Errorf("invalid or expired session")
	}

	if redisUserID != userID {
		return 0, fmt.Errorf("token does not match user session")
	}

	return userID, nil
}

func (s *UserAppImpl) generateJWT(userID uint64) (string, string, error) {
	newUUID, _ := uuid.NewRandom()
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.Auth.JWTExpiration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ID:        newUUID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Auth.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, claims.ID, nil
}

// NormalizePhone strips everything that is not a digit.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone requires exactly eight digits after normalization.
func ValidatePhone(phone string) bool {
	return len(NormalizePhone(phone)) == constant.PhoneDigits
}

// ValidateName requires at least two characters, letters and spaces only.
func ValidateName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		return false
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}
