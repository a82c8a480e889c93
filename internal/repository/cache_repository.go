package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace-server/config"
	"marketplace-server/internal/model"
	"marketplace-server/internal/util"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetProduct(ctx context.Context, product *model.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return util.LogError("ошибка сериализации товара", err)
	}

	cmd := r.client.Client.Set(ctx, r.productKey(product.UUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetProduct(ctx context.Context, uuid string) (*model.Product, error) {
	val, err := r.client.Client.Get(ctx, r.productKey(uuid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения товара из Redis", err)
	}

	var product model.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		return nil, util.LogError("ошибка десериализации товара из кэша", err)
	}
	return &product, nil
}

func (r *CacheRepository) DeleteProduct(ctx context.Context, uuid string) error {
	if err := r.client.Client.Del(ctx, r.productKey(uuid)).Err(); err != nil {
		return util.LogError("ошибка удаления товара из Redis", err)
	}
	return nil
}

// SetShare : публичные подборки кэшируются по токену — именно их дёргают без авторизации
func (r *CacheRepository) SetShare(ctx context.Context, share *model.Share) error {
	data, err := json.Marshal(share)
	if err != nil {
		return util.LogError("ошибка сериализации подборки", err)
	}

	if err := r.client.Client.Set(ctx, r.shareKey(share.AccessToken), data, r.ttl).Err(); err != nil {
		return util.LogError("ошибка сохранения подборки в Redis", err)
	}
	return nil
}

func (r *CacheRepository) GetShare(ctx context.Context, token string) (*model.Share, error) {
	val, err := r.client.Client.Get(ctx, r.shareKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, util.LogError("ошибка получения подборки из Redis", err)
	}

	var share model.Share
	if err := json.Unmarshal([]byte(val), &share); err != nil {
		return nil, util.LogError("ошибка десериализации подборки из кэша", err)
	}
	return &share, nil
}

func (r *CacheRepository) DeleteShare(ctx context.Context, token string) error {
	if err := r.client.Client.Del(ctx, r.shareKey(token)).Err(); err != nil {
		return util.LogError("ошибка удаления подборки из Redis", err)
	}
	return nil
}

func (r *CacheRepository) Pipeline() redis.Pipeliner {
	return r.client.Client.Pipeline()
}

func (r *CacheRepository) productKey(uuid string) string {
	return fmt.Sprintf("product:%s", uuid)
}

func (r *CacheRepository) shareKey(token string) string {
	return fmt.Sprintf("share:%s", token)
}
