package store

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
)

type VerificationRedisCache struct {
	client *redis.Client
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewVerificationRedisCache(client *redis.Client, tracer trace.Tracer, logger *logrus.Logger) domain.VerificationCache {
	return &VerificationRedisCache{
		client: client,
		tracer: tracer,
		logger: logger,
	}
}

func (cache *VerificationRedisCache) PostCacheData(ctx context.Context, key string, value string) error {
	ctx, span := cache.tracer.Start(ctx, "VerificationCache.PostCacheData")
	defer span.End()

	result := cache.client.Set(key, value, 10*time.Minute)
	if result.Err() != nil {
		span.SetStatus(codes.Error, "Error posting cached value")
		cache.logger.Errorf("redis set error: %s", result.Err())
		return result.Err()
	}
	return nil
}

func (cache *VerificationRedisCache) GetCachedValue(ctx context.Context, key string) (string, error) {
	ctx, span := cache.tracer.Start(ctx, "VerificationCache.GetCachedValue")
	defer span.End()

	token, err := cache.client.Get(key).Result()
	if err != nil {
		span.SetStatus(codes.Error, "Error getting cached value")
		cache.logger.Error(err)
		return "", err
	}
	return token, nil
}

func (cache *VerificationRedisCache) DelCachedValue(ctx context.Context, key string) error {
	ctx, span := cache.tracer.Start(ctx, "VerificationCache.DelCachedValue")
	defer span.End()

	result := cache.client.Del(key)
	if result.Err() != nil {
		span.SetStatus(codes.Error, "Error deleting cached value")
		cache.logger.Error(result.Err())
		return result.Err()
	}
	return nil
}
