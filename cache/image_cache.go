package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ImageCache fronts the HDFS attachment store for hot avatar and profile
// image reads.
type ImageCache struct {
	cli    *redis.Client
	logger *logrus.Logger
	tracer trace.Tracer
}

func New(client *redis.Client, logger *logrus.Logger, tracer trace.Tracer) *ImageCache {
	return &ImageCache{
		cli:    client,
		logger: logger,
		tracer: tracer,
	}
}

func (pc *ImageCache) Ping() {
	val, _ := pc.cli.Ping().Result()
	pc.logger.Debug(val)
}

// Post stores image bytes with the default expiration.
func (pc *ImageCache) Post(ctx context.Context, ownerID string, imageName string, image []byte) error {
	ctx, span := pc.tracer.Start(ctx, "ImageCache.Post")
	defer span.End()

	err := pc.cli.Set(constructKey(ownerID, imageName), image, 30*time.Minute).Err()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Error(err)
	}
	return err
}

func (pc *ImageCache) Get(ctx context.Context, ownerID string, imageName string) ([]byte, error) {
	ctx, span := pc.tracer.Start(ctx, "ImageCache.Get")
	defer span.End()

	value, err := pc.cli.Get(constructKey(ownerID, imageName)).Bytes()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	pc.logger.Debug("cache hit - get image")
	return value, nil
}

func (pc *ImageCache) Exists(ownerID string, imageName string) bool {
	cnt, err := pc.cli.Exists(constructKey(ownerID, imageName)).Result()
	if err != nil {
		return false
	}
	return cnt == 1
}
