package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Tushar365/reportappmedghor/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "medghor"

type CacheService interface {
	// Quick-add suggestions
	GetPopularProducts(ctx context.Context, limit int) ([]*models.ProductUsage, error)
	SetPopularProducts(ctx context.Context, limit int, usages []*models.ProductUsage, ttl time.Duration) error
	InvalidatePopularProducts(ctx context.Context) error

	// Editor sessions
	GetEditorLines(ctx context.Context, userID string) ([]models.ProductLine, error)
	SetEditorLines(ctx context.Context, userID string, lines []models.ProductLine, ttl time.Duration) error
	DeleteEditorLines(ctx context.Context, userID string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects to Redis. A failed initial ping is logged
// but not fatal; callers treat cache errors as misses.
func NewRedisCacheService(addr, password string, db int, logger zerolog.Logger) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("redis ping failed on initialization")
	} else {
		logger.Debug().Str("addr", parsedAddr).Msg("redis connection established")
	}

	return &redisCacheService{client: client}
}

func popularKey(limit int) string {
	return fmt.Sprintf("%s:popular:%d", keyPrefix, limit)
}

func editorKey(userID string) string {
	return fmt.Sprintf("%s:editor:%s", keyPrefix, userID)
}

func (r *redisCacheService) GetPopularProducts(ctx context.Context, limit int) ([]*models.ProductUsage, error) {
	data, err := r.client.Get(ctx, popularKey(limit)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var usages []*models.ProductUsage
	if err := json.Unmarshal(data, &usages); err != nil {
		return nil, err
	}
	return usages, nil
}

func (r *redisCacheService) SetPopularProducts(ctx context.Context, limit int, usages []*models.ProductUsage, ttl time.Duration) error {
	data, err := json.Marshal(usages)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, popularKey(limit), data, ttl).Err()
}

func (r *redisCacheService) InvalidatePopularProducts(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, keyPrefix+":popular:*").Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) GetEditorLines(ctx context.Context, userID string) ([]models.ProductLine, error) {
	data, err := r.client.Get(ctx, editorKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var lines []models.ProductLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *redisCacheService) SetEditorLines(ctx context.Context, userID string, lines []models.ProductLine, ttl time.Duration) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, editorKey(userID), data, ttl).Err()
}

func (r *redisCacheService) DeleteEditorLines(ctx context.Context, userID string) error {
	return r.client.Del(ctx, editorKey(userID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
