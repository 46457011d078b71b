package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zvrva/securespot/internal/apperrors"
	"github.com/zvrva/securespot/internal/domain"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) SignUp(ctx context.Context, email, password, passwordConfirmation string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password, passwordConfirmation)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthUseCase) ChangePassword(ctx context.Context, userID int64, current, newPassword, newPasswordConfirmed string) error {
	args := m.Called(ctx, userID, current, newPassword, newPasswordConfirmed)
	return args.Error(0)
}

func (m *MockAuthUseCase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	mockService := &MockAuthUseCase{}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireAuth(mockService), func(c *gin.Context) {
		user := currentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})

	mockService.On("Authenticate", mock.Anything, "good-token").Return(testUser(), nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "driver@example.com")
	mockService.AssertExpectations(t)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	mockService := &MockAuthUseCase{}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireAuth(mockService), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Authenticate")
}

func TestRequireAuth_RejectedToken(t *testing.T) {
	mockService := &MockAuthUseCase{}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireAuth(mockService), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	mockService.On("Authenticate", mock.Anything, "stale-token").
		Return(nil, &apperrors.UnauthorizedError{Reason: "invalid or expired token"}).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
