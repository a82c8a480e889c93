package ports

import (
	"context"

	"marketplace-server/internal/model"

	"github.com/jmoiron/sqlx"
)

type ISORepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, iso *model.ISORequest) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, isoUUID string) (*model.ISORequest, error)
	List(ctx context.Context, exec sqlx.ExtContext, category, region, cursor string, limit int) ([]model.ISORequest, string, error)
	Close(ctx context.Context, exec sqlx.ExtContext, isoUUID, buyerUUID string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, isoUUID, buyerUUID string) error
}

type ISOService interface {
	CreateISO(ctx context.Context, iso *model.ISORequest) error
	GetISO(ctx context.Context, isoUUID string) (*model.ISORequest, error)
	ListISOs(ctx context.Context, category, region, cursor string, limit int) ([]model.ISORequest, string, error)
	MatchProducts(ctx context.Context, isoUUID string, limit int) ([]model.ISOMatch, error)
	CloseISO(ctx context.Context, isoUUID string) error
	DeleteISO(ctx context.Context, isoUUID string) error
}
