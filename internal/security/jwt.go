package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"marketplace-server/config"
	"marketplace-server/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserContextKey contextKey = "user"

	// refreshTokenType — дискриминатор в claims refresh-токена: даже при совпадении
	// секретов access-токен не пройдёт проверку VerifyRefreshToken
	refreshTokenType = "refresh"
)

var (
	ErrInvalidToken = errors.New("невалидный токен")
	ErrTokenExpired = errors.New("токен просрочен")
)

// AccessClaims : подписываемое содержимое access-токена
type AccessClaims struct {
	UserUUID string `json:"user_uuid"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshClaims : подписываемое содержимое refresh-токена
type RefreshClaims struct {
	UserUUID  string `json:"user_uuid"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// AccessPayload : то, что отдаёт VerifyAccessToken — только смысловые поля,
// без iat/exp и прочих метаданных подписи
type AccessPayload struct {
	UserUUID string
	Email    string
}

type RefreshPayload struct {
	UserUUID string
}

// Principal : авторизованный субъект запроса в контексте
type Principal struct {
	UserUUID string
	Email    string
	IsAdmin  bool
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

// SignAccessToken : подписывает access-токен (15 минут, access-секрет)
func (service *JWTService) SignAccessToken(userUUID, email string) (string, error) {
	timeDuration, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("ошибка парсинга access_token_ttl: %w", err)
	}

	claims := AccessClaims{
		UserUUID: userUUID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(timeDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "marketplace-server",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return jwtToken.SignedString([]byte(service.AccessSecret))
}

// VerifyAccessToken : проверяет подпись и срок действия под access-секретом.
// Любой дефект токена — это 401 на уровне вызывающего, а не падение процесса.
func (service *JWTService) VerifyAccessToken(tokenStr string) (*AccessPayload, error) {
	var claims AccessClaims
	if err := service.parseToken(tokenStr, &claims, service.AccessSecret); err != nil {
		return nil, err
	}

	return &AccessPayload{
		UserUUID: claims.UserUUID,
		Email:    claims.Email,
	}, nil
}

// GenerateAccessRefreshTokens : выпускает свежую пару токенов для пользователя
func (service *JWTService) GenerateAccessRefreshTokens(userUUID, email string) (*model.TokensPair, error) {
	accessToken, err := service.SignAccessToken(userUUID, email)
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи access токена: %w", err)
	}

	refreshToken, err := service.SignRefreshToken(userUUID)
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи refresh токена: %w", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// SignRefreshToken : подписывает refresh-токен (7 дней, отдельный refresh-секрет)
func (service *JWTService) SignRefreshToken(userUUID string) (string, error) {
	timeDuration, err := time.ParseDuration(service.RefreshTokenTTL)
	if err != nil {
		return "", fmt.Errorf("ошибка парсинга refresh_token_ttl: %w", err)
	}

	claims := RefreshClaims{
		UserUUID:  userUUID,
		TokenType: refreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(timeDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "marketplace-server",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return jwtToken.SignedString([]byte(service.RefreshSecret))
}

// VerifyRefreshToken : проверяет подпись под refresh-секретом и дискриминатор типа
func (service *JWTService) VerifyRefreshToken(tokenStr string) (*RefreshPayload, error) {
	var claims RefreshClaims
	if err := service.parseToken(tokenStr, &claims, service.RefreshSecret); err != nil {
		return nil, err
	}

	if claims.TokenType != refreshTokenType {
		return nil, ErrInvalidToken
	}

	return &RefreshPayload{UserUUID: claims.UserUUID}, nil
}

func (service *JWTService) parseToken(tokenStr string, claims jwt.Claims, secret string) error {
	jwtToken, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}
	if jwtToken.Valid == false {
		return ErrInvalidToken
	}

	return nil
}

// HashRefreshToken : детерминированный sha256-дайджест сырого refresh-токена.
// В БД хранится только дайджест — чтение таблицы users не отдаёт рабочий токен.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RefreshTokenExpiresAt : срок действия персистентной сессии, now + refresh_token_ttl
func (service *JWTService) RefreshTokenExpiresAt() time.Time {
	timeDuration, err := time.ParseDuration(service.RefreshTokenTTL)
	if err != nil {
		// конфиг проверяется на старте, сюда попадает только опечатка в тестах
		log.Printf("ошибка парсинга refresh_token_ttl: %v", err)
		timeDuration = 7 * 24 * time.Hour
	}
	return time.Now().UTC().Add(timeDuration)
}

func JWTMiddleware(jwtService *JWTService, adminToken string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(jwtService, adminToken, next))
	}
}

func handleAuthentication(jwtService *JWTService, adminToken string, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		if adminToken != "" && token == adminToken {
			adminPrincipal := &Principal{
				UserUUID: "admin",
				IsAdmin:  true,
			}
			req := request.WithContext(context.WithValue(request.Context(), UserContextKey, adminPrincipal))
			next.ServeHTTP(writer, req)
			return
		}

		payload, err := jwtService.VerifyAccessToken(token)
		if err != nil {
			log.Printf("невалидный токен: %v", err)
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		principal := &Principal{
			UserUUID: payload.UserUUID,
			Email:    payload.Email,
		}
		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, principal))
		next.ServeHTTP(writer, req)
	}
}

func GetPrincipalFromContext(ctx context.Context) (*Principal, error) {
	principal, ok := ctx.Value(UserContextKey).(*Principal)
	if !ok || principal == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return principal, nil
}
