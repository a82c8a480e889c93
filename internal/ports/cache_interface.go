package ports

import (
	"context"

	"marketplace-server/internal/model"
)

// CacheRepository : Redis слой
type CacheRepository interface {
	SetProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, uuid string) (*model.Product, error)
	DeleteProduct(ctx context.Context, uuid string) error
	SetShare(ctx context.Context, share *model.Share) error
	GetShare(ctx context.Context, token string) (*model.Share, error)
	DeleteShare(ctx context.Context, token string) error
}
