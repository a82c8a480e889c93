package ports

import (
	"context"

	"marketplace-server/internal/model"

	"github.com/jmoiron/sqlx"
)

// ProductRepository : SQL слой
type ProductRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, product *model.Product) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, productUUID string) (*model.Product, error)
	CheckOwner(ctx context.Context, exec sqlx.ExtContext, productUUID, sellerUUID string) (bool, error)
	List(ctx context.Context, exec sqlx.ExtContext, category, region, cursor string, limit int) ([]model.Product, string, error)
	ListCandidatesForISO(ctx context.Context, exec sqlx.ExtContext, category, region string, limit int) ([]model.Product, error)
	Update(ctx context.Context, exec sqlx.ExtContext, product *model.Product) error
	Delete(ctx context.Context, exec sqlx.ExtContext, productUUID, sellerUUID string) (string, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

type ProductService interface {
	CreateProduct(ctx context.Context, product *model.Product) (string, error)
	GetProduct(ctx context.Context, productUUID string) (*model.GetProductResult, error)
	ListProducts(ctx context.Context, category, region, cursor string, limit int) ([]model.GetProductResult, string, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, productUUID string) error
}
