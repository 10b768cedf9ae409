package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"brokerdocs/internal/config"
	"brokerdocs/internal/domain"
	"brokerdocs/internal/middleware"
	"brokerdocs/internal/service"
	"brokerdocs/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthService(t *testing.T) (service.AuthService, string, uuid.UUID) {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "asesor@brokerdocs.mx",
		PasswordHash: string(hash),
		Role:         domain.RoleAdvisor,
		IsActive:     true,
	}

	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	svc := service.NewAuthService(userRepo, config.JWTConfig{
		Secret:            "test-secret-key-for-unit-tests",
		AccessTokenExpiry: 15 * time.Minute,
		Issuer:            "brokerdocs-test",
	})

	out, err := svc.Login(context.Background(), service.LoginInput{Email: user.Email, Password: "password123"})
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return svc, out.AccessToken, user.ID
}

func protectedRouter(svc service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{middleware.AuthMiddleware(svc)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String(), "role": middleware.GetRole(c)})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc, token, userID := newAuthService(t)
	r := protectedRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), string(domain.RoleAdvisor))
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	svc, _, _ := newAuthService(t)
	r := protectedRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	svc, token, _ := newAuthService(t)
	r := protectedRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", token) // no Bearer prefix
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	svc, _, _ := newAuthService(t)
	r := protectedRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	svc, token, _ := newAuthService(t)

	// Advisor passes an advisor-or-admin gate.
	allowed := protectedRouter(svc, middleware.RequireRole(domain.RoleAdvisor, domain.RoleAdmin))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	allowed.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// But not an admin-only gate.
	denied := protectedRouter(svc, middleware.RequireRole(domain.RoleAdmin))
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	denied.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}
