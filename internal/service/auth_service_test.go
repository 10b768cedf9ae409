package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"brokerdocs/internal/config"
	"brokerdocs/internal/domain"
	"brokerdocs/internal/service"
	"brokerdocs/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-key-for-unit-tests",
		AccessTokenExpiry: 15 * time.Minute,
		Issuer:            "brokerdocs-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "asesor@brokerdocs.mx",
		PasswordHash: hashPassword("password123"),
		FullName:     "Asesor Uno",
		Role:         domain.RoleAdvisor,
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "asesor@brokerdocs.mx").Return(user, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "asesor@brokerdocs.mx",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(result.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdvisor, claims.Role)

	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "asesor@brokerdocs.mx").Return(&domain.User{
		ID:           uuid.New(),
		Email:        "asesor@brokerdocs.mx",
		PasswordHash: hashPassword("correct-password"),
		IsActive:     true,
	}, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "asesor@brokerdocs.mx",
		Password: "wrong-password",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// An unknown email surfaces the same error as a wrong password so the
// response never reveals which accounts exist.
func TestAuthService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "nobody@brokerdocs.mx").Return(nil, domain.ErrNotFound)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@brokerdocs.mx",
		Password: "password123",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "baja@brokerdocs.mx").Return(&domain.User{
		ID:           uuid.New(),
		Email:        "baja@brokerdocs.mx",
		PasswordHash: hashPassword("password123"),
		IsActive:     false,
	}, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "baja@brokerdocs.mx",
		Password: "password123",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockUserRepo), testJWTConfig())

	claims, err := svc.ValidateToken("not-a-token")

	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	issuer := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "asesor@brokerdocs.mx",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	result, err := issuer.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: "password123",
	})
	assert.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-completely-different-secret"
	verifier := service.NewAuthService(userRepo, otherCfg)

	claims, err := verifier.ValidateToken(result.AccessToken)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestAuthService_Register(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "nuevo@brokerdocs.mx" && u.Role == domain.RoleReviewer && u.IsActive
	})).Return(nil)

	user, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "nuevo@brokerdocs.mx",
		Password: "password123",
		FullName: "Revisor Nuevo",
		Role:     domain.RoleReviewer,
	})

	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	userRepo.AssertExpectations(t)
}
