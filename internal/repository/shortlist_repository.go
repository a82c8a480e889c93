package repository

import (
	"context"

	"marketplace-server/config"
	"marketplace-server/internal/model"
	"marketplace-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type ShortlistRepository struct {
	*config.Database
}

func NewShortlistRepository(database *config.Database) *ShortlistRepository {
	return &ShortlistRepository{database}
}

// Add : добавляет товар в шортлист, повторное добавление — no-op
func (r *ShortlistRepository) Add(ctx context.Context, exec sqlx.ExtContext, buyerUUID, productUUID string) error {
	query := `
		INSERT INTO shortlist_items (buyer_uuid, product_uuid, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (buyer_uuid, product_uuid) DO NOTHING
	`
	_, err := exec.ExecContext(ctx, query, buyerUUID, productUUID)
	if err != nil {
		return util.LogError("[ShortlistRepo] не удалось добавить товар в шортлист", err)
	}
	return nil
}

// Remove : убирает товар из шортлиста
func (r *ShortlistRepository) Remove(ctx context.Context, exec sqlx.ExtContext, buyerUUID, productUUID string) error {
	_, err := exec.ExecContext(ctx, `
		DELETE FROM shortlist_items
		WHERE buyer_uuid = $1 AND product_uuid = $2
	`, buyerUUID, productUUID)
	if err != nil {
		return util.LogError("[ShortlistRepo] не удалось убрать товар из шортлиста", err)
	}
	return nil
}

// List : товары шортлиста покупателя, удалённые товары не показываются
func (r *ShortlistRepository) List(ctx context.Context, exec sqlx.ExtContext, buyerUUID string) ([]model.Product, error) {
	var products []model.Product
	err := sqlx.SelectContext(ctx, exec, &products, `
		SELECT p.uuid, p.seller_uuid, p.title, p.description, p.category, p.region, p.price_cents, p.min_order_qty, p.image_key, p.created_at, p.updated_at
		FROM products AS p
		INNER JOIN shortlist_items AS s ON p.uuid = s.product_uuid
		WHERE s.buyer_uuid = $1 AND p.deleted_at IS NULL
		ORDER BY s.created_at DESC
	`, buyerUUID)
	if err != nil {
		return nil, util.LogError("[ShortlistRepo] не удалось получить шортлист", err)
	}
	return products, nil
}

// Contains : есть ли товар в шортлисте
func (r *ShortlistRepository) Contains(ctx context.Context, exec sqlx.ExtContext, buyerUUID, productUUID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM shortlist_items WHERE buyer_uuid = $1 AND product_uuid = $2)`
	err := sqlx.GetContext(ctx, exec, &exists, query, buyerUUID, productUUID)
	if err != nil {
		return false, util.LogError("[ShortlistRepo] ошибка проверки шортлиста", err)
	}
	return exists, nil
}
