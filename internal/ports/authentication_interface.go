package ports

import (
	"context"

	"marketplace-server/internal/model"
)

type AuthenticationService interface {
	Register(ctx context.Context, email, password, companyName string) (*model.TokensPair, error)
	Login(ctx context.Context, email, password string) (*model.TokensPair, error)
	Refresh(ctx context.Context, rawRefreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, rawRefreshToken string) error
}
