package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

const (
	keyPrefix    = "backoffice:"
	reportPrefix = keyPrefix + "report:"
	// reportGenerationKey sits outside reportPrefix so invalidation never deletes it.
	reportGenerationKey = keyPrefix + "report_generation"
)

type CacheService interface {
	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	// TakeString reads and deletes a key atomically so a value can be consumed once.
	TakeString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	// Report caching
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateReports(ctx context.Context) error
	// ReportGeneration is bumped by every InvalidateReports; report keys embed it.
	ReportGeneration(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCacheService accepts either host:port or a redis:// URL.
func NewRedisCacheService(addr, password string, db int, logger *zap.Logger) CacheService {
	opts := &redis.Options{Addr: addr, Password: password, DB: db}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if parsed, err := redis.ParseURL(addr); err == nil {
			opts = parsed
			if password != "" {
				opts.Password = password
			}
		} else {
			logger.Warn("invalid redis url, using it as an address", zap.Error(err))
			opts.Addr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
		}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis ping failed on initialization", zap.String("addr", opts.Addr), zap.Error(err))
	} else {
		logger.Info("Redis connection established", zap.String("addr", opts.Addr))
	}

	return &redisCacheService{client: client, logger: logger}
}

// ReportKey namespaces a report cache entry.
func ReportKey(parts ...string) string {
	return reportPrefix + strings.Join(parts, ":")
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (r *redisCacheService) TakeString(ctx context.Context, key string) (string, error) {
	val, err := r.client.GetDel(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}

// GetJSON takes an already namespaced key (see ReportKey).
func (r *redisCacheService) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

func (r *redisCacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// InvalidateReports bumps the report generation, then drops every cached report using SCAN, never KEYS.
// Entries written later by a computation that started before the bump land under the old
// generation and are never read.
func (r *redisCacheService) InvalidateReports(ctx context.Context) error {
	if err := r.client.Incr(ctx, reportGenerationKey).Err(); err != nil {
		return err
	}
	iter := r.client.Scan(ctx, 0, reportPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	r.logger.Debug("invalidating cached reports", zap.Int("keys", len(keys)))
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCacheService) ReportGeneration(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, reportGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
