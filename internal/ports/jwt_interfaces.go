package ports

import (
	"time"

	"marketplace-server/internal/model"
	"marketplace-server/internal/security"
)

type JWTServiceInterface interface {
	SignAccessToken(userUUID, email string) (string, error)
	VerifyAccessToken(tokenStr string) (*security.AccessPayload, error)
	SignRefreshToken(userUUID string) (string, error)
	VerifyRefreshToken(tokenStr string) (*security.RefreshPayload, error)
	GenerateAccessRefreshTokens(userUUID, email string) (*model.TokensPair, error)
	RefreshTokenExpiresAt() time.Time
}
