package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace-server/config"
	"marketplace-server/internal/model"
	"marketplace-server/internal/security"
	"marketplace-server/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	args := m.Called(ctx, exec, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	args := m.Called(ctx, exec, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	args := m.Called(ctx, exec, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateRefreshSession(ctx context.Context, exec sqlx.ExtContext, uuid, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, exec, uuid, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshSession(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	args := m.Called(ctx, exec, uuid)
	return args.Error(0)
}

// ==== ЗАГЛУШКИ, ЧТОБЫ ИМПЛЕМЕНТИРОВАТЬ ИНТЕРФЕЙСЫ ====
func (m *MockUserRepository) UpdateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) error {
	args := m.Called(ctx, exec, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, exec sqlx.ExtContext, uuid, newPasswordHash string) error {
	args := m.Called(ctx, exec, uuid, newPasswordHash)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	args := m.Called(ctx, exec, uuid)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]*model.User, string, error) {
	args := m.Called(ctx, exec, cursor, limit)
	if users, ok := args.Get(0).([]*model.User); ok {
		return users, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func (m *MockUserRepository) Exists(ctx context.Context, exec sqlx.ExtContext, uuid string) (bool, error) {
	args := m.Called(ctx, exec, uuid)
	return args.Bool(0), args.Error(1)
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
	if p, ok := args.Get(0).(*security.AccessPayload); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) SignRefreshToken(userUUID string) (string, error) {
	args := m.Called(userUUID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) VerifyRefreshToken(tokenStr string) (*security.RefreshPayload, error) {
	args := m.Called(tokenStr)
	if p, ok := args.Get(0).(*security.RefreshPayload); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) GenerateAccessRefreshTokens(userUUID, email string) (*model.TokensPair, error) {
	args := m.Called(userUUID, email)
	if t, ok := args.Get(0).(*model.TokensPair); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) RefreshTokenExpiresAt() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

// ===== HELPERS =====

func newTestAuthService() (*service.AuthenticationService, *MockUserRepository, *MockJWTService) {
	mockUserRepo := new(MockUserRepository)
	mockJWTService := new(MockJWTService)

	svc := service.NewAuthenticationService(
		mockUserRepo,
		mockJWTService,
		&config.AppConfig{},
	)

	return svc, mockUserRepo, mockJWTService
}

func testContext() context.Context {
	return context.WithValue(context.Background(), "db", &config.Database{})
}

// ===== TESTS =====

// 1. Нет БД в контексте
func TestLogin_NoDBInContext(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Login(context.Background(), "buyer@example.com", "pass")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database connection не найден")
}

// 2. Неизвестный email даёт тот же ответ, что и неверный пароль
func TestLogin_UnknownEmail(t *testing.T) {
	svc, mockUserRepo, _ := newTestAuthService()
	ctx := testContext()

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "ghost@example.com").
		Return(nil, errors.New("not found"))

	_, err := svc.Login(ctx, "ghost@example.com", "Correct1Password")

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	mockUserRepo.AssertExpectations(t)
}

// 3. Неверный пароль
func TestLogin_WrongPassword(t *testing.T) {
	svc, mockUserRepo, _ := newTestAuthService()
	ctx := testContext()

	hash, _ := security.HashPassword("Correct1Password")
	user := &model.User{UUID: "u1", Email: "buyer@example.com", PasswordHash: hash}

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "buyer@example.com").
		Return(user, nil)

	_, err := svc.Login(ctx, "buyer@example.com", "Wrong1Password")

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	mockUserRepo.AssertExpectations(t)
}

// 4. Успешный логин: у пользователя сохраняется sha256-дайджест refresh-токена, не сам токен
func TestLogin_Success_StoresDigest(t *testing.T) {
	svc, mockUserRepo, mockJWTService := newTestAuthService()
	ctx := testContext()

	hash, _ := security.HashPassword("Correct1Password")
	user := &model.User{UUID: "u1", Email: "buyer@example.com", PasswordHash: hash}
	tokens := &model.TokensPair{AccessToken: "acc", RefreshToken: "raw-refresh"}
	expiresAt := time.Now().UTC().Add(168 * time.Hour)

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "buyer@example.com").
		Return(user, nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "u1", "buyer@example.com").
		Return(tokens, nil)
	mockJWTService.On("RefreshTokenExpiresAt").Return(expiresAt)
	mockUserRepo.On("UpdateRefreshSession", ctx, mock.Anything, "u1", security.HashRefreshToken("raw-refresh"), expiresAt).
		Return(nil)

	got, err := svc.Login(ctx, "buyer@example.com", "Correct1Password")

	assert.NoError(t, err)
	assert.Equal(t, tokens, got)
	mockUserRepo.AssertExpectations(t)
	mockJWTService.AssertExpectations(t)
}

// 5. Регистрация отклоняет слабый пароль
func TestRegister_WeakPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := testContext()

	_, err := svc.Register(ctx, "buyer@example.com", "weak", "ООО Ромашка")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "минимум 8 символов")
}

// 6. Регистрация требует название компании
func TestRegister_MissingCompanyName(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := testContext()

	_, err := svc.Register(ctx, "buyer@example.com", "Correct1Password", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "название компании")
}

// 7. Успешная ротация: предъявлен действующий токен, дайджест совпал
func TestRefresh_Success_Rotates(t *testing.T) {
	svc, mockUserRepo, mockJWTService := newTestAuthService()
	ctx := testContext()

	currentHash := security.HashRefreshToken("current-refresh")
	futureExpiry := time.Now().UTC().Add(time.Hour)
	user := &model.User{
		UUID:                  "u1",
		Email:                 "buyer@example.com",
		RefreshTokenHash:      &currentHash,
		RefreshTokenExpiresAt: &futureExpiry,
	}
	newTokens := &model.TokensPair{AccessToken: "new-acc", RefreshToken: "new-refresh"}
	newExpiry := time.Now().UTC().Add(168 * time.Hour)

	mockJWTService.On("VerifyRefreshToken", "current-refresh").
		Return(&security.RefreshPayload{UserUUID: "u1"}, nil)
	mockUserRepo.On("FindByUUID", ctx, mock.Anything, "u1").
		Return(user, nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "u1", "buyer@example.com").
		Return(newTokens, nil)
	mockJWTService.On("RefreshTokenExpiresAt").Return(newExpiry)
	mockUserRepo.On("UpdateRefreshSession", ctx, mock.Anything, "u1", security.HashRefreshToken("new-refresh"), newExpiry).
		Return(nil)

	got, err := svc.Refresh(ctx, "current-refresh")

	assert.NoError(t, err)
	assert.Equal(t, newTokens, got)
	mockUserRepo.AssertNotCalled(t, "ClearRefreshSession", mock.Anything, mock.Anything, mock.Anything)
	mockUserRepo.AssertExpectations(t)
	mockJWTService.AssertExpectations(t)
}

// 8. Повтор уже ротированного токена: сессия отзывается целиком
func TestRefresh_ReuseDetected_RevokesSession(t *testing.T) {
	svc, mockUserRepo, mockJWTService := newTestAuthService()
	ctx := testContext()

	rotatedHash := security.HashRefreshToken("newer-refresh")
	futureExpiry := time.Now().UTC().Add(time.Hour)
	user := &model.User{
		UUID:                  "u1",
		Email:                 "buyer@example.com",
		RefreshTokenHash:      &rotatedHash,
		RefreshTokenExpiresAt: &futureExpiry,
	}

	mockJWTService.On("VerifyRefreshToken", "stale-refresh").
		Return(&security.RefreshPayload{UserUUID: "u1"}, nil)
	mockUserRepo.On("FindByUUID", ctx, mock.Anything, "u1").
		Return(user, nil)
	mockUserRepo.On("ClearRefreshSession", ctx, mock.Anything, "u1").
		Return(nil)

	_, err := svc.Refresh(ctx, "stale-refresh")

	assert.ErrorIs(t, err, service.ErrSessionRevoked)
	mockUserRepo.AssertCalled(t, "ClearRefreshSession", ctx, mock.Anything, "u1")
	mockUserRepo.AssertExpectations(t)
}

// 9. Отсутствие сохранённой сессии трактуется как отзыв, очистка всё равно выполняется
func TestRefresh_NoStoredSession_Revoked(t *testing.T) {
	svc, mockUserRepo, mockJWTService := newTestAuthService()
	ctx := testContext()

	user := &model.User{UUID: "u1", Email: "buyer@example.com"}

	mockJWTService.On("VerifyRefreshToken", "orphan-refresh").
		Return(&security.RefreshPayload{UserUUID: "u1"}, nil)
	mockUserRepo.On("FindByUUID", ctx, mock.Anything, "u1").
		Return(user, nil)
	mockUserRepo.On("ClearRefreshSession", ctx, mock.Anything, "u1").
		Return(nil)

	_, err := svc.Refresh(ctx, "orphan-refresh")

	assert.ErrorIs(t, err, service.ErrSessionRevoked)
	mockUserRepo.AssertExpectations(t)
}

// 10. Естественно истёкшая сессия: 401 без отзыва
func TestRefresh_ExpiredSession_NoRevocation(t *testing.T) {
	svc, mockUserRepo, mockJWTService := newTestAuthService()
	ctx := testContext()

	currentHash := security.HashRefreshToken("current-refresh")
	pastExpiry := time.Now().UTC().Add(-time.Hour)
	user := &model.User{
		UUID:                  "u1",
		Email:                 "buyer@example.com",
		RefreshTokenHash:      &currentHash,
		RefreshTokenExpiresAt: &pastExpiry,
	}

	mockJWTService.On("VerifyRefreshToken", "current-refresh").
		Return(&security.RefreshPayload{UserUUID: "u1"}, nil)
	mockUserRepo.On("FindByUUID", ctx, mock.Anything, "u1").
		Return(user, nil)

	_, err := svc.Refresh(ctx, "current-refresh")

	assert.ErrorIs(t, err, service.ErrSessionExpired)
	mockUserRepo.AssertNotCalled(t, "ClearRefreshSession", mock.Anything, mock.Anything, mock.Anything)
	mockUserRepo.AssertExpectations(t)
}

// 11. Пользователь удалён между выдачей токена и ротацией
func TestRefresh_UserNotFound(t *testing.T) {
	svc, mockUserRepo, mockJWTService := newTestAuthService()
	ctx := testContext()

	mockJWTService.On("VerifyRefreshToken", "current-refresh").
		Return(&security.RefreshPayload{UserUUID: "ghost"}, nil)
	mockUserRepo.On("FindByUUID", ctx, mock.Anything, "ghost").
		Return(nil, errors.New("sql: no rows in result set"))

	_, err := svc.Refresh(ctx, "current-refresh")

	assert.ErrorIs(t, err, service.ErrUserNotFound)
	mockUserRepo.AssertExpectations(t)
}

// 12. Битая подпись refresh-токена пробрасывается как есть
func TestRefresh_InvalidToken(t *testing.T) {
	svc, _, mockJWTService := newTestAuthService()
	ctx := testContext()

	mockJWTService.On("VerifyRefreshToken", "garbage").
		Return(nil, security.ErrInvalidToken)

	_, err := svc.Refresh(ctx, "garbage")

	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

// 13. Logout идемпотентен: пустой и битый токен — не ошибка
func TestLogout_Idempotent(t *testing.T) {
	svc, mockUserRepo, mockJWTService := newTestAuthService()
	ctx := testContext()

	assert.NoError(t, svc.Logout(ctx, ""))

	mockJWTService.On("VerifyRefreshToken", "garbage").
		Return(nil, security.ErrInvalidToken)
	assert.NoError(t, svc.Logout(ctx, "garbage"))

	mockUserRepo.AssertNotCalled(t, "ClearRefreshSession", mock.Anything, mock.Anything, mock.Anything)
}

// 14. Logout с действующим токеном очищает сессию
func TestLogout_ClearsSession(t *testing.T) {
	svc, mockUserRepo, mockJWTService := newTestAuthService()
	ctx := testContext()

	mockJWTService.On("VerifyRefreshToken", "current-refresh").
		Return(&security.RefreshPayload{UserUUID: "u1"}, nil)
	mockUserRepo.On("ClearRefreshSession", ctx, mock.Anything, "u1").
		Return(nil)

	assert.NoError(t, svc.Logout(ctx, "current-refresh"))
	mockUserRepo.AssertExpectations(t)
}
