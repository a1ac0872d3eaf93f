package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appuser "github.com/kakilabs/kaki-backend/application/user"
	"github.com/kakilabs/kaki-backend/cmd/config"
	"github.com/kakilabs/kaki-backend/constant"
	redismocks "github.com/kakilabs/kaki-backend/mocks/repository/redis"
	usermocks "github.com/kakilabs/kaki-backend/mocks/repository/user"
	"github.com/kakilabs/kaki-backend/model"
	cerr "github.com/kakilabs/kaki-backend/utils/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret",
			JWTExpiration:  time.Hour,
			SessionExpTime: time.Hour,
		},
	}
}

func TestUserApp_CreateOrUpdateUser(t *testing.T) {
	type fields struct {
		config    *config.Config
		userRepo  *usermocks.UserRepository
		redisRepo *redismocks.RedisRepository
	}
	type args struct {
		ctx context.Context
		req *model.OnboardRequest
	}
	tests := []struct {
		name        string
		fields      fields
		args        args
		mockCall    func(f fields)
		wantName    string
		wantPhone   string
		wantCreated bool
		wantErr     bool
		errType     constant.ErrorType
	}{
		{
			name: "success: new user with spaced phone normalized",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.OnboardRequest{Name: "Jane", PhoneNumber: "9123 4567"},
			},
			mockCall: func(f fields) {
				f.userRepo.
					On("Get", mock.Anything, &model.UserFilter{PhoneNumber: "91234567", ActiveOnly: true}).
					Return(nil, nil).
					Once()
				f.userRepo.
					On("Create", mock.Anything, mock.MatchedBy(func(ent *model.UserEntity) bool {
						return ent.Name == "Jane" &&
							ent.PhoneNumber == "91234567" &&
							ent.CountryCode == "+65"
					})).
					Return(&model.UserEntity{
						ID:          1,
						Name:        "Jane",
						PhoneNumber: "91234567",
						CountryCode: "+65",
						IsActive:    true,
						CreatedAt:   time.Now(),
					}, nil).
					Once()
				f.redisRepo.
					On("SetSession", mock.Anything, mock.Anything, uint64(1), time.Hour).
					Return(nil).
					Once()
			},
			wantName:    "Jane",
			wantPhone:   "91234567",
			wantCreated: true,
		},
		{
			name: "success: same phone new name updates existing row",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.OnboardRequest{Name: "Janet", PhoneNumber: "91234567"},
			},
			mockCall: func(f fields) {
				f.userRepo.
					On("Get", mock.Anything, &model.UserFilter{PhoneNumber: "91234567", ActiveOnly: true}).
					Return(&model.UserEntity{
						ID:          1,
						Name:        "Jane",
						PhoneNumber: "91234567",
						CountryCode: "+65",
						IsActive:    true,
					}, nil).
					Once()
				f.userRepo.
					On("UpdateName", mock.Anything, uint64(1), "Janet").
					Return(nil).
					Once()
				f.redisRepo.
					On("SetSession", mock.Anything, mock.Anything, uint64(1), time.Hour).
					Return(nil).
					Once()
			},
			wantName:    "Janet",
			wantPhone:   "91234567",
			wantCreated: false,
		},
		{
			name: "success: same phone same name is a no-op lookup",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.OnboardRequest{Name: "Jane", PhoneNumber: "91234567"},
			},
			mockCall: func(f fields) {
				f.userRepo.
					On("Get", mock.Anything, &model.UserFilter{PhoneNumber: "91234567", ActiveOnly: true}).
					Return(&model.UserEntity{
						ID:          1,
						Name:        "Jane",
						PhoneNumber: "91234567",
						CountryCode: "+65",
						IsActive:    true,
					}, nil).
					Once()
				f.redisRepo.
					On("SetSession", mock.Anything, mock.Anything, uint64(1), time.Hour).
					Return(nil).
					Once()
			},
			wantName:    "Jane",
			wantPhone:   "91234567",
			wantCreated: false,
		},
		{
			name: "error: phone too short after normalization",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.OnboardRequest{Name: "Jane", PhoneNumber: "9123 456"},
			},
			mockCall: func(f fields) {},
			wantErr:  true,
			errType:  constant.ErrValidation,
		},
		{
			name: "error: phone too long after normalization",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.OnboardRequest{Name: "Jane", PhoneNumber: "+65 9123 4567"},
			},
			mockCall: func(f fields) {},
			wantErr:  true,
			errType:  constant.ErrValidation,
		},
		{
			name: "error: name with digits rejected",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.OnboardRequest{Name: "J4ne", PhoneNumber: "91234567"},
			},
			mockCall: func(f fields) {},
			wantErr:  true,
			errType:  constant.ErrValidation,
		},
		{
			name: "error: directory unreachable",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.OnboardRequest{Name: "Jane", PhoneNumber: "91234567"},
			},
			mockCall: func(f fields) {
				f.userRepo.
					On("Get", mock.Anything, &model.UserFilter{PhoneNumber: "91234567", ActiveOnly: true}).
					Return(nil, errors.New("dial tcp: connection refused")).
					Once()
			},
			wantErr: true,
			errType: constant.ErrBackendUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockCall(tt.fields)

			app := appuser.NewUserApp(tt.fields.config, tt.fields.userRepo, tt.fields.redisRepo)
			got, err := app.CreateOrUpdateUser(tt.args.ctx, tt.args.req)

			if tt.wantErr {
				require.Error(t, err)
				require.True(t, cerr.Is(err, tt.errType))
				require.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantName, got.User.Name)
			require.Equal(t, tt.wantPhone, got.User.PhoneNumber)
			require.Equal(t, tt.wantCreated, got.Created)
			require.NotEmpty(t, got.Token)
		})
	}
}

func TestUserApp_ValidateToken(t *testing.T) {
	cfg := testConfig()
	userRepo := usermocks.NewUserRepository(t)
	redisRepo := redismocks.NewRedisRepository(t)

	redisRepo.
		On("SetSession", mock.Anything, mock.Anything, uint64(42), time.Hour).
		Return(nil).
		Once()
	redisRepo.
		On("GetSession", mock.Anything, mock.Anything).
		Return(uint64(42), nil).
		Once()

	app := appuser.NewUserApp(cfg, userRepo, redisRepo)

	token, err := app.IssueToken(context.Background(), 42)
	require.NoError(t, err)

	userID, err := app.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)
}

func TestUserApp_ValidateToken_BadToken(t *testing.T) {
	app := appuser.NewUserApp(testConfig(), usermocks.NewUserRepository(t), redismocks.NewRedisRepository(t))

	_, err := app.ValidateToken(context.Background(), "not-a-token")
	require.Error(t, err)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9123 4567", "91234567"},
		{"+65-9123-4567", "6591234567"},
		{"(9123) 4567", "91234567"},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, appuser.NormalizePhone(tt.in))
	}
}

func TestValidateName(t *testing.T) {
	require.True(t, appuser.ValidateName("Jane"))
	require.True(t, appuser.ValidateName("Jane Doe"))
	require.False(t, appuser.ValidateName("J"))
	require.False(t, appuser.ValidateName("  "))
	require.False(t, appuser.ValidateName("Jane99"))
}
