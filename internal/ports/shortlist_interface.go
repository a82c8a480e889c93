package ports

import (
	"context"

	"marketplace-server/internal/model"

	"github.com/jmoiron/sqlx"
)

type ShortlistRepository interface {
	Add(ctx context.Context, exec sqlx.ExtContext, buyerUUID, productUUID string) error
	Remove(ctx context.Context, exec sqlx.ExtContext, buyerUUID, productUUID string) error
	List(ctx context.Context, exec sqlx.ExtContext, buyerUUID string) ([]model.Product, error)
	Contains(ctx context.Context, exec sqlx.ExtContext, buyerUUID, productUUID string) (bool, error)
}

type ShortlistService interface {
	AddToShortlist(ctx context.Context, productUUID string) error
	RemoveFromShortlist(ctx context.Context, productUUID string) error
	ListShortlist(ctx context.Context) ([]model.GetProductResult, error)
}
