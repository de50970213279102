package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/consultape/consulta-gateway/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Prefixo das chaves no Redis; o Purge varre apenas este namespace.
const redisPrefix = "consulta:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(cfg config.RedisConf, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("erro no GET do redis: %w", err)
	}
	return data, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, redisPrefix+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("erro no SET do redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Purge(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, redisPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("erro ao remover chave %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("erro no SCAN do redis: %w", err)
	}
	return nil
}
