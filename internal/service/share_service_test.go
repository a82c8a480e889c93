package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace-server/config"
	"marketplace-server/internal/model"
	"marketplace-server/internal/security"
	"marketplace-server/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(ctx context.Context, exec sqlx.ExtContext, share *model.Share) error {
	args := m.Called(ctx, exec, share)
	return args.Error(0)
}

func (m *MockShareRepository) GetByToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.Share, error) {
	args := m.Called(ctx, exec, token)
	if s, ok := args.Get(0).(*model.Share); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockShareRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, shareUUID, ownerUUID string) (*model.Share, error) {
	args := m.Called(ctx, exec, shareUUID, ownerUUID)
	if s, ok := args.Get(0).(*model.Share); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockShareRepository) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Share, error) {
	args := m.Called(ctx, exec, ownerUUID)
	if s, ok := args.Get(0).([]model.Share); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockShareRepository) Revoke(ctx context.Context, exec sqlx.ExtContext, shareUUID, ownerUUID string) error {
	args := m.Called(ctx, exec, shareUUID, ownerUUID)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, exec sqlx.ExtContext, product *model.Product) error {
	args := m.Called(ctx, exec, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, productUUID string) (*model.Product, error) {
	args := m.Called(ctx, exec, productUUID)
	if p, ok := args.Get(0).(*model.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) CheckOwner(ctx context.Context, exec sqlx.ExtContext, productUUID, sellerUUID string) (bool, error) {
	args := m.Called(ctx, exec, productUUID, sellerUUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, exec sqlx.ExtContext, category, region, cursor string, limit int) ([]model.Product, string, error) {
	args := m.Called(ctx, exec, category, region, cursor, limit)
	if p, ok := args.Get(0).([]model.Product); ok {
		return p, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func (m *MockProductRepository) ListCandidatesForISO(ctx context.Context, exec sqlx.ExtContext, category, region string, limit int) ([]model.Product, error) {
	args := m.Called(ctx, exec, category, region, limit)
	if p, ok := args.Get(0).([]model.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, exec sqlx.ExtContext, product *model.Product) error {
	args := m.Called(ctx, exec, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, exec sqlx.ExtContext, productUUID, sellerUUID string) (string, error) {
	args := m.Called(ctx, exec, productUUID, sellerUUID)
	return args.String(0), args.Error(1)
}

func (m *MockProductRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	noop := func() error { return nil }
	return nil, noop, noop, args.Error(3)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) SetProduct(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCacheRepository) GetProduct(ctx context.Context, uuid string) (*model.Product, error) {
	args := m.Called(ctx, uuid)
	if p, ok := args.Get(0).(*model.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheRepository) DeleteProduct(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockCacheRepository) SetShare(ctx context.Context, share *model.Share) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *MockCacheRepository) GetShare(ctx context.Context, token string) (*model.Share, error) {
	args := m.Called(ctx, token)
	if s, ok := args.Get(0).(*model.Share); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheRepository) DeleteShare(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ===== HELPERS =====

func newTestShareService() (*service.ShareService, *MockShareRepository, *MockProductRepository, *MockCacheRepository, *MockS3Storage) {
	shareRepo := new(MockShareRepository)
	productRepo := new(MockProductRepository)
	cacheRepo := new(MockCacheRepository)
	storage := new(MockS3Storage)

	svc := service.NewShareService(
		shareRepo,
		productRepo,
		cacheRepo,
		storage,
		&config.CRMConfig{Timeout: "5s"},
		time.Minute,
	)

	return svc, shareRepo, productRepo, cacheRepo, storage
}

// ===== TESTS =====

// Чужой товар нельзя положить в подборку
func TestCreateShare_ForeignProduct(t *testing.T) {
	svc, _, productRepo, _, _ := newTestShareService()
	ctx := contextWithPrincipal(&security.Principal{UserUUID: "seller-1"})

	productRepo.On("CheckOwner", ctx, mock.Anything, "p1", "seller-1").
		Return(false, nil)

	_, err := svc.CreateShare(ctx, "Осенняя коллекция", []string{"p1"})

	assert.ErrorIs(t, err, service.ErrShareForeignProduct)
	assert.Contains(t, err.Error(), "p1")
	productRepo.AssertExpectations(t)
}

func TestCreateShare_Empty(t *testing.T) {
	svc, _, _, _, _ := newTestShareService()
	ctx := contextWithPrincipal(&security.Principal{UserUUID: "seller-1"})

	_, err := svc.CreateShare(ctx, "Пустая", nil)

	assert.ErrorIs(t, err, service.ErrShareEmpty)
}

// Промах кэша: подборка читается из БД и кладётся в кэш
func TestGetPublicShare_CacheMiss(t *testing.T) {
	svc, shareRepo, productRepo, cacheRepo, storage := newTestShareService()
	ctx := testContext()

	share := &model.Share{
		UUID:         "s1",
		OwnerUUID:    "seller-1",
		Title:        "Осенняя коллекция",
		AccessToken:  "share-token",
		ProductUUIDs: []string{"p1", "p2"},
	}

	cacheRepo.On("GetShare", ctx, "share-token").Return(nil, nil)
	shareRepo.On("GetByToken", ctx, mock.Anything, "share-token").Return(share, nil)
	cacheRepo.On("SetShare", ctx, share).Return(nil)
	productRepo.On("GetByUUID", ctx, mock.Anything, "p1").
		Return(&model.Product{UUID: "p1", ImageKey: "products/p1/img.jpg"}, nil)
	// p2 удалён после создания подборки, из выдачи просто выпадает
	productRepo.On("GetByUUID", ctx, mock.Anything, "p2").
		Return(nil, errors.New("sql: no rows in result set"))
	storage.On("GeneratePresignedGetURL", ctx, "products/p1/img.jpg", time.Minute).
		Return("https://s3.local/presigned/p1", nil)

	result, err := svc.GetPublicShare(ctx, "share-token")

	assert.NoError(t, err)
	assert.Equal(t, "s1", result.Share.UUID)
	assert.Len(t, result.Products, 1)
	assert.Equal(t, "https://s3.local/presigned/p1", result.Products[0].ImageURL)
	shareRepo.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

// Попадание в кэш: в БД за подборкой не ходим
func TestGetPublicShare_CacheHit(t *testing.T) {
	svc, shareRepo, productRepo, cacheRepo, _ := newTestShareService()
	ctx := testContext()

	share := &model.Share{
		UUID:         "s1",
		AccessToken:  "share-token",
		ProductUUIDs: []string{"p1"},
	}

	cacheRepo.On("GetShare", ctx, "share-token").Return(share, nil)
	productRepo.On("GetByUUID", ctx, mock.Anything, "p1").
		Return(&model.Product{UUID: "p1"}, nil)

	result, err := svc.GetPublicShare(ctx, "share-token")

	assert.NoError(t, err)
	assert.Equal(t, "s1", result.Share.UUID)
	shareRepo.AssertNotCalled(t, "GetByToken", mock.Anything, mock.Anything, mock.Anything)
}

// Отзыв подборки сбрасывает её из кэша по токену
func TestRevokeShare_InvalidatesCache(t *testing.T) {
	svc, shareRepo, _, cacheRepo, _ := newTestShareService()
	ctx := contextWithPrincipal(&security.Principal{UserUUID: "seller-1"})

	share := &model.Share{UUID: "s1", OwnerUUID: "seller-1", AccessToken: "share-token"}

	shareRepo.On("GetByUUID", ctx, mock.Anything, "s1", "seller-1").Return(share, nil)
	shareRepo.On("Revoke", ctx, mock.Anything, "s1", "seller-1").Return(nil)
	cacheRepo.On("DeleteShare", ctx, "share-token").Return(nil)

	err := svc.RevokeShare(ctx, "s1")

	assert.NoError(t, err)
	shareRepo.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

// Чужую подборку отозвать нельзя
func TestRevokeShare_NotOwner(t *testing.T) {
	svc, shareRepo, _, cacheRepo, _ := newTestShareService()
	ctx := contextWithPrincipal(&security.Principal{UserUUID: "seller-2"})

	shareRepo.On("GetByUUID", ctx, mock.Anything, "s1", "seller-2").
		Return(nil, errors.New("[ShareRepo] подборка не найдена или доступ запрещён"))

	err := svc.RevokeShare(ctx, "s1")

	assert.Error(t, err)
	cacheRepo.AssertNotCalled(t, "DeleteShare", mock.Anything, mock.Anything)
}
