package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketplace-server/internal/handler"
	"marketplace-server/internal/model"
	"marketplace-server/internal/model/requestresponse"
	"marketplace-server/internal/security"
	"marketplace-server/internal/service"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

// MockAuthenticationService
type MockAuthenticationService struct {
	mock.Mock
}

func (m *MockAuthenticationService) Register(ctx context.Context, email, password, companyName string) (*model.TokensPair, error) {
	args := m.Called(ctx, email, password, companyName)
	if tokens, ok := args.Get(0).(*model.TokensPair); ok {
		return tokens, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticationService) Login(ctx context.Context, email, password string) (*model.TokensPair, error) {
	args := m.Called(ctx, email, password)
	if tokens, ok := args.Get(0).(*model.TokensPair); ok {
		return tokens, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticationService) Refresh(ctx context.Context, rawRefreshToken string) (*model.TokensPair, error) {
	args := m.Called(ctx, rawRefreshToken)
	if tokens, ok := args.Get(0).(*model.TokensPair); ok {
		return tokens, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticationService) Logout(ctx context.Context, rawRefreshToken string) error {
	args := m.Called(ctx, rawRefreshToken)
	return args.Error(0)
}

// MockJWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) SignAccessToken(userUUID, email string) (string, error) {
	args := m.Called(userUUID, email)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) VerifyAccessToken(tokenStr string) (*security.AccessPayload, error) {
	args := m.Called(tokenStr)
	if payload, ok := args.Get(0).(*security.AccessPayload); ok {
		return payload, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) SignRefreshToken(userUUID string) (string, error) {
	args := m.Called(userUUID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) VerifyRefreshToken(tokenStr string) (*security.RefreshPayload, error) {
	args := m.Called(tokenStr)
	if payload, ok := args.Get(0).(*security.RefreshPayload); ok {
		return payload, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) GenerateAccessRefreshTokens(userUUID, email string) (*model.TokensPair, error) {
	args := m.Called(userUUID, email)
	if tokens, ok := args.Get(0).(*model.TokensPair); ok {
		return tokens, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) RefreshTokenExpiresAt() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

// ===== HELPERS =====

func newAuthHandler(authService *MockAuthenticationService, jwtService *MockJWTService) *handler.AuthenticationHandler {
	return &handler.AuthenticationHandler{
		AuthenticationService: authService,
		JWTServiceInterface:   jwtService,
	}
}

// refreshCookie достаёт cookie с refresh-токеном из ответа
func refreshCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "refreshToken" {
			return cookie
		}
	}
	return nil
}

func decodeError(t *testing.T, body *strings.Reader) requestresponse.ErrorResponse {
	t.Helper()
	var errResp requestresponse.ErrorResponse
	assert.NoError(t, json.NewDecoder(body).Decode(&errResp))
	return errResp
}

// ===== TESTS =====

func TestLogin_SetsHTTPOnlyRefreshCookie(t *testing.T) {
	mockAuth := new(MockAuthenticationService)
	mockJWT := new(MockJWTService)
	authHandler := newAuthHandler(mockAuth, mockJWT)

	mockAuth.On("Login", mock.Anything, "buyer@acme.example", "correct-horse-8").
		Return(&model.TokensPair{AccessToken: "access-jwt", RefreshToken: "raw-refresh"}, nil)
	mockJWT.On("RefreshTokenExpiresAt").Return(time.Now().Add(7 * 24 * time.Hour))

	body := `{"email":"buyer@acme.example","password":"correct-horse-8"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	authHandler.Login(recorder, req)

	resp := recorder.Result()
	assert.Equal(t, 200, resp.StatusCode)

	var loginResp requestresponse.LoginResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	assert.Equal(t, "access-jwt", loginResp.Response.AccessToken)

	// сырой refresh-токен уходит только в cookie, тела ответа он не касается
	assert.NotContains(t, recorder.Body.String(), "raw-refresh")

	cookie := refreshCookie(t, resp)
	assert.NotNil(t, cookie)
	assert.Equal(t, "raw-refresh", cookie.Value)
	assert.Equal(t, "/api/auth", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.True(t, cookie.Expires.After(time.Now()))
}

func TestLogin_InvalidCredentials_NoCookie(t *testing.T) {
	mockAuth := new(MockAuthenticationService)
	authHandler := newAuthHandler(mockAuth, new(MockJWTService))

	mockAuth.On("Login", mock.Anything, "buyer@acme.example", "wrong").
		Return(nil, fmt.Errorf("[AuthService] %w", service.ErrInvalidCredentials))

	body := `{"email":"buyer@acme.example","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	authHandler.Login(recorder, req)

	resp := recorder.Result()
	assert.Equal(t, 401, resp.StatusCode)
	assert.Nil(t, refreshCookie(t, resp))

	errResp := decodeError(t, strings.NewReader(recorder.Body.String()))
	assert.Equal(t, 401, errResp.Error.Code)
}

func TestRefresh_RotatesCookie(t *testing.T) {
	mockAuth := new(MockAuthenticationService)
	mockJWT := new(MockJWTService)
	authHandler := newAuthHandler(mockAuth, mockJWT)

	mockAuth.On("Refresh", mock.Anything, "old-refresh").
		Return(&model.TokensPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)
	mockJWT.On("RefreshTokenExpiresAt").Return(time.Now().Add(7 * 24 * time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh"})
	recorder := httptest.NewRecorder()

	authHandler.RefreshToken(recorder, req)

	resp := recorder.Result()
	assert.Equal(t, 200, resp.StatusCode)

	var refreshResp requestresponse.RefreshTokenResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&refreshResp))
	assert.Equal(t, "new-access", refreshResp.Response.AccessToken)

	cookie := refreshCookie(t, resp)
	assert.NotNil(t, cookie)
	assert.Equal(t, "new-refresh", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestRefresh_MissingCookie(t *testing.T) {
	mockAuth := new(MockAuthenticationService)
	authHandler := newAuthHandler(mockAuth, new(MockJWTService))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	recorder := httptest.NewRecorder()

	authHandler.RefreshToken(recorder, req)

	assert.Equal(t, 401, recorder.Code)
	mockAuth.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestRefresh_RevokedSession_ClearsCookie(t *testing.T) {
	mockAuth := new(MockAuthenticationService)
	authHandler := newAuthHandler(mockAuth, new(MockJWTService))

	mockAuth.On("Refresh", mock.Anything, "replayed-refresh").
		Return(nil, fmt.Errorf("[AuthService] %w", service.ErrSessionRevoked))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "replayed-refresh"})
	recorder := httptest.NewRecorder()

	authHandler.RefreshToken(recorder, req)

	resp := recorder.Result()
	assert.Equal(t, 401, resp.StatusCode)

	// отозванная сессия сбрасывает cookie на клиенте
	cookie := refreshCookie(t, resp)
	assert.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}

func TestRefresh_ExpiredSession_KeepsCookie(t *testing.T) {
	mockAuth := new(MockAuthenticationService)
	authHandler := newAuthHandler(mockAuth, new(MockJWTService))

	mockAuth.On("Refresh", mock.Anything, "stale-refresh").
		Return(nil, fmt.Errorf("[AuthService] %w", service.ErrSessionExpired))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "stale-refresh"})
	recorder := httptest.NewRecorder()

	authHandler.RefreshToken(recorder, req)

	resp := recorder.Result()
	assert.Equal(t, 401, resp.StatusCode)

	// естественное истечение не трогает cookie
	assert.Nil(t, refreshCookie(t, resp))
}

func TestRefresh_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name         string
		serviceErr   error
		expectedCode int
	}{
		{
			name:         "просроченный refresh-токен",
			serviceErr:   fmt.Errorf("[AuthService] %w", security.ErrTokenExpired),
			expectedCode: 401,
		},
		{
			name:         "невалидная подпись токена",
			serviceErr:   fmt.Errorf("[AuthService] %w", security.ErrInvalidToken),
			expectedCode: 401,
		},
		{
			name:         "пользователь удалён",
			serviceErr:   fmt.Errorf("[AuthService] %w", service.ErrUserNotFound),
			expectedCode: 404,
		},
		{
			name:         "внутренняя ошибка",
			serviceErr:   errors.New("[AuthService] ошибка базы данных"),
			expectedCode: 500,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockAuth := new(MockAuthenticationService)
			authHandler := newAuthHandler(mockAuth, new(MockJWTService))

			mockAuth.On("Refresh", mock.Anything, "some-refresh").Return(nil, tc.serviceErr)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
			req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "some-refresh"})
			recorder := httptest.NewRecorder()

			authHandler.RefreshToken(recorder, req)

			assert.Equal(t, tc.expectedCode, recorder.Code)
		})
	}
}

func TestLogout_WithoutCookie_Idempotent(t *testing.T) {
	mockAuth := new(MockAuthenticationService)
	authHandler := newAuthHandler(mockAuth, new(MockJWTService))

	mockAuth.On("Logout", mock.Anything, "").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	recorder := httptest.NewRecorder()

	authHandler.Logout(recorder, req)

	resp := recorder.Result()
	assert.Equal(t, 200, resp.StatusCode)

	var logoutResp requestresponse.LogoutResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&logoutResp))
	assert.True(t, logoutResp.Response.LoggedOut)

	cookie := refreshCookie(t, resp)
	assert.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mockAuth := new(MockAuthenticationService)
	authHandler := newAuthHandler(mockAuth, new(MockJWTService))

	pqErr := &pq.Error{Code: "23505", Constraint: "users_email_key"}
	mockAuth.On("Register", mock.Anything, "buyer@acme.example", "correct-horse-8", "ООО Ромашка").
		Return(nil, fmt.Errorf("[AuthService] ошибка создания пользователя: %w", pqErr))

	body := `{"email":"buyer@acme.example","password":"correct-horse-8","company_name":"ООО Ромашка"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	authHandler.Register(recorder, req)

	assert.Equal(t, 409, recorder.Code)
	errResp := decodeError(t, strings.NewReader(recorder.Body.String()))
	assert.Contains(t, errResp.Error.Text, "уже существует")
}

func TestRegister_RepositoryFailureIsNotConflict(t *testing.T) {
	mockAuth := new(MockAuthenticationService)
	authHandler := newAuthHandler(mockAuth, new(MockJWTService))

	// любой сбой вставки кроме unique_violation остаётся 500
	mockAuth.On("Register", mock.Anything, "buyer@acme.example", "correct-horse-8", "ООО Ромашка").
		Return(nil, errors.New("[AuthService] ошибка создания пользователя: соединение разорвано"))

	body := `{"email":"buyer@acme.example","password":"correct-horse-8","company_name":"ООО Ромашка"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	authHandler.Register(recorder, req)

	assert.Equal(t, 500, recorder.Code)
}

func TestRegister_ValidationError(t *testing.T) {
	mockAuth := new(MockAuthenticationService)
	authHandler := newAuthHandler(mockAuth, new(MockJWTService))

	mockAuth.On("Register", mock.Anything, "buyer@acme.example", "short", "ООО Ромашка").
		Return(nil, errors.New("[AuthService] пароль должен содержать не менее 8 символов"))

	body := `{"email":"buyer@acme.example","password":"short","company_name":"ООО Ромашка"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	authHandler.Register(recorder, req)

	assert.Equal(t, 400, recorder.Code)
}
