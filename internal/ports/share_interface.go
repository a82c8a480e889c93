package ports

import (
	"context"

	"marketplace-server/internal/model"

	"github.com/jmoiron/sqlx"
)

type ShareRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, share *model.Share) error
	GetByToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.Share, error)
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, shareUUID, ownerUUID string) (*model.Share, error)
	ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Share, error)
	Revoke(ctx context.Context, exec sqlx.ExtContext, shareUUID, ownerUUID string) error
}

type ShareService interface {
	CreateShare(ctx context.Context, title string, productUUIDs []string) (*model.Share, error)
	GetPublicShare(ctx context.Context, token string) (*model.GetShareResult, error)
	ListShares(ctx context.Context) ([]model.Share, error)
	RevokeShare(ctx context.Context, shareUUID string) error
}
