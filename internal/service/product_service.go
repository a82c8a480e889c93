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
	"marketplace-server/internal/util"
)

type ProductService struct {
	productRepository ports.ProductRepository
	cacheRepository   ports.CacheRepository
	storageInterface  ports.S3Storage
	ttl               time.Duration
}

func NewProductService(
	productRepository ports.ProductRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	ttl time.Duration,
) *ProductService {
	return &ProductService{
		productRepository: productRepository,
		cacheRepository:   cacheRepository,
		storageInterface:  storageInterface,
		ttl:               ttl,
	}
}

// CreateProduct : сохраняет товар и возвращает pre-signed PUT URL для загрузки изображения.
// Сам файл грузит браузер продавца напрямую в S3, через сервер он не проходит.
func (s *ProductService) CreateProduct(ctx context.Context, product *model.Product) (string, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return "", fmt.Errorf("[ProductService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return "", fmt.Errorf("[ProductService] пользователь не авторизован")
	}
	product.SellerUUID = principal.UserUUID

	if product.Title == "" || product.Category == "" {
		return "", fmt.Errorf("[ProductService] название и категория обязательны")
	}
	if product.PriceCents <= 0 {
		return "", fmt.Errorf("[ProductService] цена должна быть положительной")
	}

	var putURL string
	if product.ImageKey != "" {
		putURL, err = s.storageInterface.GeneratePresignedPutURL(ctx, product.ImageKey, s.ttl)
		if err != nil {
			return "", util.LogError("[ProductService] не удалось сгенерировать pre-signed PUT URL", err)
		}
	}

	if err := s.productRepository.Create(ctx, db, product); err != nil {
		return "", util.LogError("[ProductService] не удалось сохранить товар в БД", err)
	}

	log.Printf("[ProductService] товар %s успешно создан", product.Title)

	return putURL, nil
}

// GetProduct : точечное чтение через кэш
func (s *ProductService) GetProduct(ctx context.Context, productUUID string) (*model.GetProductResult, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[ProductService] database connection не найден в context")
	}

	product, err := s.cacheRepository.GetProduct(ctx, productUUID)
	if err != nil {
		log.Printf("[ProductService] ошибка кэширования: %v", err)
	}

	if product == nil {
		product, err = s.productRepository.GetByUUID(ctx, db, productUUID)
		if err != nil {
			return nil, util.LogError("[ProductService] товар не найден", err)
		}

		if err := s.cacheRepository.SetProduct(ctx, product); err != nil {
			log.Printf("[ProductService] ошибка кэширования товара: %v", err)
		} else {
			log.Printf("[ProductService] товар %s взят из БД и успешно кэширован Redis", product.UUID)
		}
	} else {
		log.Printf("[ProductService] товар %s взят из кэша Redis", product.UUID)
	}

	return s.withImageURL(ctx, product)
}

// ListProducts : каталог с фильтрами, без кэша — выборки разнородные
func (s *ProductService) ListProducts(ctx context.Context, category, region, cursor string, limit int) ([]model.GetProductResult, string, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, "", fmt.Errorf("[ProductService] database connection не найден в context")
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	products, nextCursor, err := s.productRepository.List(ctx, db, category, region, cursor, limit)
	if err != nil {
		return nil, "", err
	}

	results := make([]model.GetProductResult, 0, len(products))
	for i := range products {
		result, err := s.withImageURL(ctx, &products[i])
		if err != nil {
			return nil, "", err
		}
		results = append(results, *result)
	}

	return results, nextCursor, nil
}

// UpdateProduct : обновляет товар владельца и сбрасывает кэш
func (s *ProductService) UpdateProduct(ctx context.Context, product *model.Product) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[ProductService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[ProductService] пользователь не авторизован")
	}
	product.SellerUUID = principal.UserUUID

	if err := s.productRepository.Update(ctx, db, product); err != nil {
		return err
	}

	if err := s.cacheRepository.DeleteProduct(ctx, product.UUID); err != nil {
		log.Printf("[ProductService] не удалось сбросить кэш товара: %v", err)
	}

	return nil
}

// DeleteProduct : мягкое удаление, затем очистка S3 и кэша
func (s *ProductService) DeleteProduct(ctx context.Context, productUUID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[ProductService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[ProductService] пользователь не авторизован")
	}

	imageKey, err := s.productRepository.Delete(ctx, db, productUUID, principal.UserUUID)
	if err != nil {
		return err
	}

	if imageKey != "" {
		if err := s.storageInterface.DeleteObject(ctx, imageKey); err != nil {
			log.Printf("[ProductService] не удалось удалить объект из S3: %v", err)
		}
	}

	if err := s.cacheRepository.DeleteProduct(ctx, productUUID); err != nil {
		log.Printf("[ProductService] не удалось сбросить кэш товара: %v", err)
	}

	return nil
}

func (s *ProductService) withImageURL(ctx context.Context, product *model.Product) (*model.GetProductResult, error) {
	var imageURL string
	var err error

	if product.ImageKey != "" {
		imageURL, err = s.storageInterface.GeneratePresignedGetURL(ctx, product.ImageKey, s.ttl)
		if err != nil {
			return nil, util.LogError("[ProductService] не удалось сгенерировать pre-signed GET URL", err)
		}
	}

	return &model.GetProductResult{
		Product:  product,
		ImageURL: imageURL,
	}, nil
}
