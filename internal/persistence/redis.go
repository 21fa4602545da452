package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/config"
)

var errRedisNotConfigured = errors.New("redis client not configured")

// advanceScript stores ARGV[1] (unix micros) only when it is newer than the current value.
var advanceScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local candidate = tonumber(ARGV[1])
if candidate > current then
  redis.call('SET', KEYS[1], ARGV[1])
  return 1
end
return 0
`)

// Redis wraps the go-redis client.
type Redis struct {
	Client    *redis.Client
	keyPrefix string
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client, keyPrefix: cfg.KeyPrefix}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errRedisNotConfigured
	}
	return r.Client.Ping(ctx).Err()
}

// AdvanceWatermark moves the tenant's latest committed change time forward. Older
// values are ignored so out-of-order publications never move it back.
func (r *Redis) AdvanceWatermark(ctx context.Context, tenantID string, at time.Time) error {
	if r == nil || r.Client == nil {
		return errRedisNotConfigured
	}
	return advanceScript.Run(ctx, r.Client, []string{r.watermarkKey(tenantID)}, at.UTC().UnixMicro()).Err()
}

// Watermark returns the tenant's latest committed change time. ok is false when
// nothing has been recorded yet.
func (r *Redis) Watermark(ctx context.Context, tenantID string) (at time.Time, ok bool, err error) {
	if r == nil || r.Client == nil {
		return time.Time{}, false, errRedisNotConfigured
	}
	micros, err := r.Client.Get(ctx, r.watermarkKey(tenantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMicro(micros).UTC(), true, nil
}

func (r *Redis) watermarkKey(tenantID string) string {
	prefix := r.keyPrefix
	if prefix == "" {
		prefix = "compliance"
	}
	return prefix + ":changes:watermark:" + tenantID
}
