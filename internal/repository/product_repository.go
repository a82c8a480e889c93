package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace-server/config"
	"marketplace-server/internal/model"
	"marketplace-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type ProductRepository struct {
	*config.Database
}

func NewProductRepository(database *config.Database) *ProductRepository {
	return &ProductRepository{database}
}

// BeginTX : открывает транзакцию и возвращает exec вместе с rollback/commit
func (r *ProductRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, util.LogError("[ProductRepo] не удалось начать транзакцию", err)
	}
	return tx, tx.Rollback, tx.Commit, nil
}

// Create : сохраняет товар
func (r *ProductRepository) Create(ctx context.Context, exec sqlx.ExtContext, product *model.Product) error {
	query := `
		INSERT INTO products (uuid, seller_uuid, title, description, category, region, price_cents, min_order_qty, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := exec.ExecContext(ctx, query,
		product.UUID,
		product.SellerUUID,
		product.Title,
		product.Description,
		product.Category,
		product.Region,
		product.PriceCents,
		product.MinOrderQty,
		product.ImageKey,
	)
	if err != nil {
		return util.LogError("[ProductRepo] ошибка вставки данных в БД", err)
	}
	return nil
}

// GetByUUID : ищет неудалённый товар по UUID
func (r *ProductRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, productUUID string) (*model.Product, error) {
	query := `
		SELECT uuid, seller_uuid, title, description, category, region, price_cents, min_order_qty, image_key, created_at, updated_at
		FROM products
		WHERE uuid = $1 AND deleted_at IS NULL
	`
	var product model.Product
	err := sqlx.GetContext(ctx, exec, &product, query, productUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.LogError("[ProductRepo] товар не найден", err)
		}
		return nil, util.LogError("[ProductRepo] ошибка при выполнении запроса", err)
	}
	return &product, nil
}

// CheckOwner : true, если пользователь — продавец этого товара
func (r *ProductRepository) CheckOwner(ctx context.Context, exec sqlx.ExtContext, productUUID, sellerUUID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE uuid = $1 AND seller_uuid = $2 AND deleted_at IS NULL)`
	err := sqlx.GetContext(ctx, exec, &exists, query, productUUID, sellerUUID)
	if err != nil {
		return false, util.LogError("[ProductRepo] не удалось проверить владельца", err)
	}
	return exists, nil
}

// List : cursor-based пагинация по created_at с фильтрами по категории и региону
func (r *ProductRepository) List(ctx context.Context, exec sqlx.ExtContext, category, region, cursor string, limit int) ([]model.Product, string, error) {
	query := `
		SELECT uuid, seller_uuid, title, description, category, region, price_cents, min_order_qty, image_key, created_at, updated_at
		FROM products
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR category = $1)
		  AND ($2 = '' OR region = $2)
		  AND uuid > $3
		ORDER BY uuid ASC
		LIMIT $4
	`

	var products []model.Product
	err := sqlx.SelectContext(ctx, exec, &products, query, category, region, cursor, limit+1)
	if err != nil {
		return nil, "", util.LogError("[ProductRepo] не удалось получить список товаров", err)
	}

	var nextCursor string
	if len(products) > limit {
		products = products[:limit]
		nextCursor = products[len(products)-1].UUID
	}

	return products, nextCursor, nil
}

// ListCandidatesForISO : кандидаты на матчинг к ISO-заявке.
// Широкая выборка (категория ИЛИ регион), точный скоринг делает сервис.
func (r *ProductRepository) ListCandidatesForISO(ctx context.Context, exec sqlx.ExtContext, category, region string, limit int) ([]model.Product, error) {
	query := `
		SELECT uuid, seller_uuid, title, description, category, region, price_cents, min_order_qty, image_key, created_at, updated_at
		FROM products
		WHERE deleted_at IS NULL
		  AND (category = $1 OR region = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	var products []model.Product
	err := sqlx.SelectContext(ctx, exec, &products, query, category, region, limit)
	if err != nil {
		return nil, util.LogError("[ProductRepo] не удалось получить кандидатов для матчинга", err)
	}
	return products, nil
}

// Update : обновляет поля товара (только владелец)
func (r *ProductRepository) Update(ctx context.Context, exec sqlx.ExtContext, product *model.Product) error {
	query := `
		UPDATE products
		SET title = $3, description = $4, category = $5, region = $6, price_cents = $7, min_order_qty = $8, updated_at = NOW()
		WHERE uuid = $1 AND seller_uuid = $2 AND deleted_at IS NULL
	`
	result, err := exec.ExecContext(ctx, query,
		product.UUID,
		product.SellerUUID,
		product.Title,
		product.Description,
		product.Category,
		product.Region,
		product.PriceCents,
		product.MinOrderQty,
	)
	if err != nil {
		return util.LogError("[ProductRepo] не удалось обновить товар", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[ProductRepo] не удалось проверить, обновлён ли товар", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("[ProductRepo] товар не найден или доступ запрещён")
	}
	return nil
}

// Delete : мягкое удаление, возвращает ключ изображения для очистки S3
func (r *ProductRepository) Delete(ctx context.Context, exec sqlx.ExtContext, productUUID, sellerUUID string) (string, error) {
	query := `
		UPDATE products
		SET deleted_at = NOW()
		WHERE uuid = $1 AND seller_uuid = $2 AND deleted_at IS NULL
		RETURNING image_key
	`
	var imageKey string
	err := exec.QueryRowxContext(ctx, query, productUUID, sellerUUID).Scan(&imageKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("[ProductRepo] товар не найден или доступ запрещён")
		}
		return "", util.LogError("[ProductRepo] не удалось удалить товар", err)
	}
	return imageKey, nil
}
