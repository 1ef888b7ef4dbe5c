package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contractors/models"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisKey = "contractors:dataset"
	redisMaxRetries = 10
)

// RedisStore хранит набор данных одним JSON-значением. Update использует
// оптимистичную транзакцию WATCH/MULTI и повторяет цикл при конфликте.
type RedisStore struct {
	rdb *redis.Client
	key string
	now func() time.Time
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key, now: time.Now}
}

func (s *RedisStore) Load(ctx context.Context) (*models.Dataset, error) {
	return s.get(ctx, s.rdb)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) get(ctx context.Context, c stringGetter) (*models.Dataset, error) {
	raw, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewDataset(s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	ds := &models.Dataset{}
	if err := json.Unmarshal(raw, ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	ds.Normalize()
	return ds, nil
}

// Update может вызвать fn несколько раз, каждый раз на свежем наборе данных.
func (s *RedisStore) Update(ctx context.Context, fn func(*models.Dataset) error) (*models.Dataset, error) {
	var result *models.Dataset
	txf := func(tx *redis.Tx) error {
		ds, err := s.get(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(ds); err != nil {
			return err
		}
		data, err := json.Marshal(ds)
		if err != nil {
			return fmt.Errorf("encode dataset: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		if err == nil {
			result = ds
		}
		return err
	}

	for i := 0; i < redisMaxRetries; i++ {
		err := s.rdb.Watch(ctx, txf, s.key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("redis update %s: %w", s.key, redis.TxFailedErr)
}
