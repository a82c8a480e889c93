package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"marketplace-server/config"
	"marketplace-server/internal/model"
	"marketplace-server/internal/notifier"
	"marketplace-server/internal/ports"
	"marketplace-server/internal/security"
	"marketplace-server/internal/util"

	"github.com/google/uuid"
)

const shareTokenLength = 32

var (
	ErrShareEmpty          = errors.New("подборка не может быть пустой")
	ErrShareForeignProduct = errors.New("товар не принадлежит продавцу")
)

type ShareService struct {
	shareRepository   ports.ShareRepository
	productRepository ports.ProductRepository
	cacheRepository   ports.CacheRepository
	storageInterface  ports.S3Storage
	crmConfig         *config.CRMConfig
	ttl               time.Duration
}

func NewShareService(
	shareRepository ports.ShareRepository,
	productRepository ports.ProductRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	crmConfig *config.CRMConfig,
	ttl time.Duration,
) *ShareService {
	return &ShareService{
		shareRepository:   shareRepository,
		productRepository: productRepository,
		cacheRepository:   cacheRepository,
		storageInterface:  storageInterface,
		crmConfig:         crmConfig,
		ttl:               ttl,
	}
}

// CreateShare : собирает подборку из товаров продавца и выдаёт публичный токен.
// О новой подборке асинхронно уведомляется CRM, сбой доставки запрос не ломает.
func (s *ShareService) CreateShare(ctx context.Context, title string, productUUIDs []string) (*model.Share, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[ShareService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return nil, fmt.Errorf("[ShareService] пользователь не авторизован")
	}

	if len(productUUIDs) == 0 {
		return nil, fmt.Errorf("[ShareService] %w", ErrShareEmpty)
	}

	for _, productUUID := range productUUIDs {
		isOwner, err := s.productRepository.CheckOwner(ctx, db, productUUID, principal.UserUUID)
		if err != nil {
			return nil, err
		}
		if !isOwner {
			return nil, fmt.Errorf("[ShareService] товар %s: %w", productUUID, ErrShareForeignProduct)
		}
	}

	token, err := util.GenerateUniqueShareToken(ctx, db.DB, shareTokenLength)
	if err != nil {
		return nil, util.LogError("[ShareService] не удалось сгенерировать токен подборки", err)
	}

	share := &model.Share{
		UUID:         uuid.New().String(),
		OwnerUUID:    principal.UserUUID,
		Title:        title,
		AccessToken:  token,
		ProductUUIDs: productUUIDs,
	}

	if err := s.shareRepository.Create(ctx, db, share); err != nil {
		return nil, util.LogError("[ShareService] не удалось сохранить подборку", err)
	}

	timeout, err := time.ParseDuration(s.crmConfig.Timeout)
	if err != nil {
		timeout = 5 * time.Second
	}
	go func() {
		event := notifier.CRMEvent{
			Type:     "share.created",
			UserUUID: share.OwnerUUID,
			EntityID: share.UUID,
			Occurred: time.Now().UTC(),
		}
		if err := notifier.NotifyCRM(s.crmConfig.URL, timeout, event); err != nil {
			log.Printf("[ShareService] ошибка отправки события в CRM: %v", err)
		}
	}()

	log.Printf("[ShareService] подборка %s успешно создана", share.UUID)
	return share, nil
}

// GetPublicShare : публичная подборка по токену, без авторизации, через кэш
func (s *ShareService) GetPublicShare(ctx context.Context, token string) (*model.GetShareResult, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[ShareService] database connection не найден в context")
	}

	share, err := s.cacheRepository.GetShare(ctx, token)
	if err != nil {
		log.Printf("[ShareService] ошибка кэширования: %v", err)
	}

	if share == nil {
		share, err = s.shareRepository.GetByToken(ctx, db, token)
		if err != nil {
			return nil, util.LogError("[ShareService] подборка не найдена", err)
		}

		if err := s.cacheRepository.SetShare(ctx, share); err != nil {
			log.Printf("[ShareService] ошибка кэширования подборки: %v", err)
		}
	}

	products := make([]model.GetProductResult, 0, len(share.ProductUUIDs))
	for _, productUUID := range share.ProductUUIDs {
		product, err := s.productRepository.GetByUUID(ctx, db, productUUID)
		if err != nil {
			// товар мог быть удалён после создания подборки
			continue
		}

		var imageURL string
		if product.ImageKey != "" {
			imageURL, err = s.storageInterface.GeneratePresignedGetURL(ctx, product.ImageKey, s.ttl)
			if err != nil {
				return nil, util.LogError("[ShareService] не удалось сгенерировать pre-signed GET URL", err)
			}
		}

		products = append(products, model.GetProductResult{
			Product:  product,
			ImageURL: imageURL,
		})
	}

	return &model.GetShareResult{
		Share:    share,
		Products: products,
	}, nil
}

// ListShares : подборки текущего продавца
func (s *ShareService) ListShares(ctx context.Context) ([]model.Share, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[ShareService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return nil, fmt.Errorf("[ShareService] пользователь не авторизован")
	}

	return s.shareRepository.ListByOwner(ctx, db, principal.UserUUID)
}

// RevokeShare : отзывает подборку и сбрасывает её из кэша
func (s *ShareService) RevokeShare(ctx context.Context, shareUUID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[ShareService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[ShareService] пользователь не авторизован")
	}

	share, err := s.shareRepository.GetByUUID(ctx, db, shareUUID, principal.UserUUID)
	if err != nil {
		return err
	}

	if err := s.shareRepository.Revoke(ctx, db, shareUUID, principal.UserUUID); err != nil {
		return err
	}

	if err := s.cacheRepository.DeleteShare(ctx, share.AccessToken); err != nil {
		log.Printf("[ShareService] не удалось сбросить кэш подборки: %v", err)
	}

	return nil
}
