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

type ISORepository struct {
	*config.Database
}

func NewISORepository(database *config.Database) *ISORepository {
	return &ISORepository{database}
}

// Create : публикует ISO-заявку на доске
func (r *ISORepository) Create(ctx context.Context, exec sqlx.ExtContext, iso *model.ISORequest) error {
	query := `
		INSERT INTO iso_requests (uuid, buyer_uuid, title, description, category, region, budget_cents, quantity, is_open)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
	`
	_, err := exec.ExecContext(ctx, query,
		iso.UUID,
		iso.BuyerUUID,
		iso.Title,
		iso.Description,
		iso.Category,
		iso.Region,
		iso.BudgetCents,
		iso.Quantity,
	)
	if err != nil {
		return util.LogError("[ISORepo] ошибка вставки данных в БД", err)
	}
	return nil
}

// GetByUUID : ищет заявку по UUID
func (r *ISORepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, isoUUID string) (*model.ISORequest, error) {
	query := `
		SELECT uuid, buyer_uuid, title, description, category, region, budget_cents, quantity, is_open, created_at
		FROM iso_requests
		WHERE uuid = $1 AND deleted_at IS NULL
	`
	var iso model.ISORequest
	err := sqlx.GetContext(ctx, exec, &iso, query, isoUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.LogError("[ISORepo] заявка не найдена", err)
		}
		return nil, util.LogError("[ISORepo] ошибка при выполнении запроса", err)
	}
	return &iso, nil
}

// List : открытые заявки с фильтрами и cursor-based пагинацией по uuid
func (r *ISORepository) List(ctx context.Context, exec sqlx.ExtContext, category, region, cursor string, limit int) ([]model.ISORequest, string, error) {
	query := `
		SELECT uuid, buyer_uuid, title, description, category, region, budget_cents, quantity, is_open, created_at
		FROM iso_requests
		WHERE deleted_at IS NULL AND is_open = TRUE
		  AND ($1 = '' OR category = $1)
		  AND ($2 = '' OR region = $2)
		  AND uuid > $3
		ORDER BY uuid ASC
		LIMIT $4
	`

	var isos []model.ISORequest
	err := sqlx.SelectContext(ctx, exec, &isos, query, category, region, cursor, limit+1)
	if err != nil {
		return nil, "", util.LogError("[ISORepo] не удалось получить список заявок", err)
	}

	var nextCursor string
	if len(isos) > limit {
		isos = isos[:limit]
		nextCursor = isos[len(isos)-1].UUID
	}

	return isos, nextCursor, nil
}

// Close : закрывает заявку (только автор)
func (r *ISORepository) Close(ctx context.Context, exec sqlx.ExtContext, isoUUID, buyerUUID string) error {
	query := `UPDATE iso_requests SET is_open = FALSE WHERE uuid = $1 AND buyer_uuid = $2 AND is_open = TRUE AND deleted_at IS NULL`

	result, err := exec.ExecContext(ctx, query, isoUUID, buyerUUID)
	if err != nil {
		return util.LogError("[ISORepo] не удалось закрыть заявку", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[ISORepo] не удалось проверить, закрыта ли заявка", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("[ISORepo] заявка не найдена или доступ запрещён")
	}

	return nil
}

// Delete : мягкое удаление заявки (только автор)
func (r *ISORepository) Delete(ctx context.Context, exec sqlx.ExtContext, isoUUID, buyerUUID string) error {
	query := `UPDATE iso_requests SET deleted_at = NOW() WHERE uuid = $1 AND buyer_uuid = $2 AND deleted_at IS NULL`

	result, err := exec.ExecContext(ctx, query, isoUUID, buyerUUID)
	if err != nil {
		return util.LogError("[ISORepo] не удалось удалить заявку", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[ISORepo] не удалось проверить, удалена ли заявка", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("[ISORepo] заявка не найдена или доступ запрещён")
	}

	return nil
}
