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

type ShareRepository struct {
	*config.Database
}

func NewShareRepository(database *config.Database) *ShareRepository {
	return &ShareRepository{database}
}

// Create : сохраняет подборку и состав её товаров
func (r *ShareRepository) Create(ctx context.Context, exec sqlx.ExtContext, share *model.Share) error {
	query := `
		INSERT INTO shares (uuid, owner_uuid, title, access_token)
		VALUES ($1, $2, $3, $4)
	`
	_, err := exec.ExecContext(ctx, query, share.UUID, share.OwnerUUID, share.Title, share.AccessToken)
	if err != nil {
		return util.LogError("[ShareRepo] ошибка вставки данных в БД", err)
	}

	for _, productUUID := range share.ProductUUIDs {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO share_products (share_uuid, product_uuid, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (share_uuid, product_uuid) DO NOTHING
		`, share.UUID, productUUID)
		if err != nil {
			return util.LogError("[ShareRepo] не удалось добавить товар в подборку", err)
		}
	}

	return nil
}

// GetByToken : ищет активную подборку по публичному токену
func (r *ShareRepository) GetByToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.Share, error) {
	query := `
		SELECT uuid, owner_uuid, title, access_token, created_at
		FROM shares
		WHERE access_token = $1 AND deleted_at IS NULL
	`
	var share model.Share
	err := sqlx.GetContext(ctx, exec, &share, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.LogError("[ShareRepo] подборка не найдена", err)
		}
		return nil, util.LogError("[ShareRepo] ошибка при выполнении запроса", err)
	}

	share.ProductUUIDs, err = r.listProductUUIDs(ctx, exec, share.UUID)
	if err != nil {
		return nil, err
	}

	return &share, nil
}

// GetByUUID : ищет подборку владельца
func (r *ShareRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, shareUUID, ownerUUID string) (*model.Share, error) {
	query := `
		SELECT uuid, owner_uuid, title, access_token, created_at
		FROM shares
		WHERE uuid = $1 AND owner_uuid = $2 AND deleted_at IS NULL
	`
	var share model.Share
	err := sqlx.GetContext(ctx, exec, &share, query, shareUUID, ownerUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("[ShareRepo] подборка не найдена или доступ запрещён")
		}
		return nil, util.LogError("[ShareRepo] ошибка при выполнении запроса", err)
	}

	share.ProductUUIDs, err = r.listProductUUIDs(ctx, exec, share.UUID)
	if err != nil {
		return nil, err
	}

	return &share, nil
}

// ListByOwner : все активные подборки продавца
func (r *ShareRepository) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Share, error) {
	query := `
		SELECT uuid, owner_uuid, title, access_token, created_at
		FROM shares
		WHERE owner_uuid = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	var shares []model.Share
	err := sqlx.SelectContext(ctx, exec, &shares, query, ownerUUID)
	if err != nil {
		return nil, util.LogError("[ShareRepo] не удалось получить список подборок", err)
	}
	return shares, nil
}

// Revoke : мягкое удаление подборки, публичная ссылка перестаёт работать
func (r *ShareRepository) Revoke(ctx context.Context, exec sqlx.ExtContext, shareUUID, ownerUUID string) error {
	query := `UPDATE shares SET deleted_at = NOW() WHERE uuid = $1 AND owner_uuid = $2 AND deleted_at IS NULL`

	result, err := exec.ExecContext(ctx, query, shareUUID, ownerUUID)
	if err != nil {
		return util.LogError("[ShareRepo] не удалось отозвать подборку", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[ShareRepo] не удалось проверить, отозвана ли подборка", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("[ShareRepo] подборка не найдена или доступ запрещён")
	}

	return nil
}

func (r *ShareRepository) listProductUUIDs(ctx context.Context, exec sqlx.ExtContext, shareUUID string) ([]string, error) {
	var uuids []string
	err := sqlx.SelectContext(ctx, exec, &uuids, `
		SELECT product_uuid FROM share_products WHERE share_uuid = $1 ORDER BY created_at ASC
	`, shareUUID)
	if err != nil {
		return nil, util.LogError("[ShareRepo] не удалось получить товары подборки", err)
	}
	return uuids, nil
}
