package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"marketplace-server/config"
	"marketplace-server/internal/model"
	"marketplace-server/internal/ports"
	"marketplace-server/internal/security"
)

type ShortlistService struct {
	shortlistRepository ports.ShortlistRepository
	productRepository   ports.ProductRepository
	storageInterface    ports.S3Storage
	ttl                 time.Duration
}

func NewShortlistService(
	shortlistRepository ports.ShortlistRepository,
	productRepository ports.ProductRepository,
	storageInterface ports.S3Storage,
	ttl time.Duration,
) *ShortlistService {
	return &ShortlistService{
		shortlistRepository: shortlistRepository,
		productRepository:   productRepository,
		storageInterface:    storageInterface,
		ttl:                 ttl,
	}
}

// AddToShortlist : сохраняет товар в шортлист покупателя, повтор — no-op
func (s *ShortlistService) AddToShortlist(ctx context.Context, productUUID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[ShortlistService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[ShortlistService] пользователь не авторизован")
	}

	// товар должен существовать и быть не удалён
	if _, err := s.productRepository.GetByUUID(ctx, db, productUUID); err != nil {
		return fmt.Errorf("[ShortlistService] товар не найден")
	}

	return s.shortlistRepository.Add(ctx, db, principal.UserUUID, productUUID)
}

// RemoveFromShortlist : убирает товар из шортлиста, отсутствие записи — не ошибка
func (s *ShortlistService) RemoveFromShortlist(ctx context.Context, productUUID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[ShortlistService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[ShortlistService] пользователь не авторизован")
	}

	return s.shortlistRepository.Remove(ctx, db, principal.UserUUID, productUUID)
}

// ListShortlist : шортлист текущего покупателя с pre-signed ссылками на изображения
func (s *ShortlistService) ListShortlist(ctx context.Context) ([]model.GetProductResult, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[ShortlistService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return nil, fmt.Errorf("[ShortlistService] пользователь не авторизован")
	}

	products, err := s.shortlistRepository.List(ctx, db, principal.UserUUID)
	if err != nil {
		return nil, err
	}

	results := make([]model.GetProductResult, 0, len(products))
	for i := range products {
		product := &products[i]

		var imageURL string
		if product.ImageKey != "" {
			imageURL, err = s.storageInterface.GeneratePresignedGetURL(ctx, product.ImageKey, s.ttl)
			if err != nil {
				log.Printf("[ShortlistService] не удалось сгенерировать pre-signed GET URL: %v", err)
				imageURL = ""
			}
		}

		results = append(results, model.GetProductResult{
			Product:  product,
			ImageURL: imageURL,
		})
	}

	return results, nil
}
