package repositories

import (
	"context"
	"time"
)

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
}

// ErrCacheMiss возвращается из Get, если ключа нет.
var ErrCacheMiss = cacheMiss{}

type cacheMiss struct{}

func (cacheMiss) Error() string { return "ключ не найден в кеше" }
