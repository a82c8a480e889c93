package security_test

import (
	"strings"
	"testing"
	"time"

	"marketplace-server/config"
	"marketplace-server/internal/security"

	"github.com/stretchr/testify/assert"
)

func newTestJWTService() *security.JWTService {
	return security.NewJWTService(&config.JWTConfig{
		AccessSecret:    "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "168h",
	})
}

// 1. Подпись и проверка access-токена возвращают исходный payload
func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.SignAccessToken("u1", "buyer@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	payload, err := svc.VerifyAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", payload.UserUUID)
	assert.Equal(t, "buyer@example.com", payload.Email)
}

// 2. Испорченный токен не проходит проверку подписи
func TestAccessToken_Tampered(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.SignAccessToken("u1", "buyer@example.com")
	assert.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[2] = "AAAA" + parts[2][4:]
	tampered := strings.Join(parts, ".")

	_, err = svc.VerifyAccessToken(tampered)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

// 3. Токен под чужим секретом отклоняется
func TestAccessToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	other := security.NewJWTService(&config.JWTConfig{
		AccessSecret:    "another-secret",
		RefreshSecret:   "another-refresh-secret",
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "168h",
	})

	token, err := other.SignAccessToken("u1", "buyer@example.com")
	assert.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

// 4. Просроченный access-токен даёт отдельную ошибку
func TestAccessToken_Expired(t *testing.T) {
	svc := security.NewJWTService(&config.JWTConfig{
		AccessSecret:    "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  "-1m",
		RefreshTokenTTL: "168h",
	})

	token, err := svc.SignAccessToken("u1", "buyer@example.com")
	assert.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, security.ErrTokenExpired)
}

// 5. Refresh-токен проходит проверку и несёт UUID пользователя
func TestRefreshToken_RoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.SignRefreshToken("u1")
	assert.NoError(t, err)

	payload, err := svc.VerifyRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", payload.UserUUID)
}

// 6. Access-токен не проходит проверку как refresh: секреты разные
func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := newTestJWTService()

	accessToken, err := svc.SignAccessToken("u1", "buyer@example.com")
	assert.NoError(t, err)

	_, err = svc.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

// 7. Refresh-токен не принимается как access
func TestAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := newTestJWTService()

	refreshToken, err := svc.SignRefreshToken("u1")
	assert.NoError(t, err)

	_, err = svc.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

// 8. Даже при одинаковых секретах access-токен режется дискриминатором token_type
func TestRefreshToken_TypeDiscriminator(t *testing.T) {
	svc := security.NewJWTService(&config.JWTConfig{
		AccessSecret:    "shared-secret",
		RefreshSecret:   "shared-secret",
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "168h",
	})

	accessToken, err := svc.SignAccessToken("u1", "buyer@example.com")
	assert.NoError(t, err)

	_, err = svc.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

// 9. Дайджест refresh-токена детерминирован и не содержит сам токен
func TestHashRefreshToken(t *testing.T) {
	digest1 := security.HashRefreshToken("some-refresh-token")
	digest2 := security.HashRefreshToken("some-refresh-token")
	other := security.HashRefreshToken("another-refresh-token")

	assert.Equal(t, digest1, digest2)
	assert.NotEqual(t, digest1, other)
	assert.Len(t, digest1, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", digest1)
	assert.NotContains(t, digest1, "some-refresh-token")
}

// 10. Срок сессии лежит в интервале (now, now+7d]
func TestRefreshTokenExpiresAt(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now().UTC()

	expiresAt := svc.RefreshTokenExpiresAt()

	assert.True(t, expiresAt.After(now))
	assert.True(t, expiresAt.Before(now.Add(168*time.Hour+time.Minute)))
}
