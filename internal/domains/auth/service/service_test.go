package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/jwt"
	jwtMocks "innkeep/infras/jwt/mocks"
	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/domains/auth/model/dto"
	"innkeep/internal/domains/auth/service"
	userMocks "innkeep/internal/domains/user/mocks"
	userModel "innkeep/internal/domains/user/model"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/password"
)

type fixture struct {
	svc      service.Auth
	userRepo *userMocks.MockUser
	jwt      *jwtMocks.MockJWT
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		userRepo: userMocks.NewMockUser(ctrl),
		jwt:      jwtMocks.NewMockJWT(ctrl),
	}

	f.svc = service.New(f.userRepo, &config.Config{}, otelMocks.NewOtel(), f.jwt)

	return f
}

func activeUser(t *testing.T, plaintext string) userModel.User {
	t.Helper()

	hash, err := password.Hash(plaintext)
	assert.NoError(t, err)

	return userModel.User{
		ID:       "user-1",
		Username: "frontdesk",
		Password: hash,
		Role:     "staff",
		Name:     "Front Desk",
		Active:   true,
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues token pair and stamps last login", func(t *testing.T) {
		f := newFixture(t)
		user := activeUser(t, "secret123")

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (userModel.User, error) {
				where, _ := filter.GetWhereClause()
				assert.Contains(t, where, "users.username")

				return user, nil
			})

		f.jwt.EXPECT().
			GenerateTokenPair("user-1", "frontdesk", "staff").
			Return(&jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}, nil)

		f.userRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, update map[string]any, _ gDto.FilterGroup) error {
				assert.Contains(t, update, userModel.FieldLastLogin)

				return nil
			})

		res, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "frontdesk", Password: "secret123"})

		assert.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
		assert.Equal(t, "refresh", res.RefreshToken)
		assert.Equal(t, int64(900), res.ExpiresIn)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser(t, "secret123"), nil)

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "frontdesk", Password: "wrong"})

		assert.EqualError(t, err, "invalid username or password")
	})

	t.Run("rejects unknown username with the same message", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, nil)

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "secret123"})

		assert.EqualError(t, err, "invalid username or password")
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		f := newFixture(t)
		user := activeUser(t, "secret123")
		user.Active = false

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(user, nil)

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "frontdesk", Password: "secret123"})

		assert.EqualError(t, err, "user account is deactivated")
	})
}

func TestAuthService_Register(t *testing.T) {
	registerReq := dto.RegisterRequest{
		Username: "manager",
		Password: "secret123",
		Name:     "Hotel Manager",
		Role:     "manager",
	}

	t.Run("hashes password before storing", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		f.userRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.Equal(t, "manager", user.Username)
				assert.Equal(t, "manager", user.Role)
				assert.True(t, user.Active)
				assert.NotEqual(t, "secret123", user.Password)
				assert.NoError(t, password.Verify("secret123", user.Password))

				return nil
			})

		assert.NoError(t, f.svc.Register(context.Background(), registerReq))
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := f.svc.Register(context.Background(), registerReq)

		assert.True(t, failure.IsConflict(err))
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotates the pair", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().
			RefreshTokens("old-refresh").
			Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 900}, nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "old-refresh"})

		assert.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)
	})

	t.Run("maps validation failure to unauthorized", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().
			RefreshTokens("expired").
			Return(nil, errors.New("token has expired"))

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "expired"})

		assert.Equal(t, 401, failure.GetCode(err))
	})
}

func TestAuthService_Me(t *testing.T) {
	t.Run("returns the profile", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser(t, "secret123"), nil)

		res, err := f.svc.Me(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, "frontdesk", res.Username)
		assert.Equal(t, "staff", res.Role)
		assert.True(t, res.Active)
	})

	t.Run("maps missing user to not found", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, nil)

		_, err := f.svc.Me(context.Background(), "ghost")

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("verifies the current password first", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser(t, "secret123"), nil)

		f.userRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, update map[string]any, _ gDto.FilterGroup) error {
				hash, ok := update[userModel.FieldPassword].(string)
				assert.True(t, ok)
				assert.NoError(t, password.Verify("newsecret1", hash))

				return nil
			})

		err := f.svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "secret123",
			NewPassword:     "newsecret1",
		}, "user-1")

		assert.NoError(t, err)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser(t, "secret123"), nil)

		err := f.svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "newsecret1",
		}, "user-1")

		assert.EqualError(t, err, "current password is incorrect")
	})
}
