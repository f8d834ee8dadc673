package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/user/hebrew-imagegen/internal/entity"
)

type redisImageRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisImageRepository creates a redis-backed image store. Useful when
// several instances must share generated images; selected with
// storage.backend: redis.
func NewRedisImageRepository(client *redis.Client, ttl time.Duration) (ImageRepository, error) {
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &redisImageRepository{client: client, ttl: ttl}, nil
}

func imageKey(id string) string {
	return fmt.Sprintf("image:%s", id)
}

func (r *redisImageRepository) Put(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", entity.ErrEmptyImage
	}

	id := uuid.New().String()
	if err := r.client.Set(ctx, imageKey(id), data, r.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func (r *redisImageRepository) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := r.client.Get(ctx, imageKey(id)).Bytes()
	if err == redis.Nil {
		return nil, entity.ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *redisImageRepository) Replace(ctx context.Context, id string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", entity.ErrEmptyImage
	}

	// SET XX only succeeds when the key already exists, and swaps the value
	// atomically.
	ok, err := r.client.SetXX(ctx, imageKey(id), data, r.ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", entity.ErrImageNotFound
	}
	return id, nil
}

func (r *redisImageRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, imageKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrImageNotFound
	}
	return nil
}
