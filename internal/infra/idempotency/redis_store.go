// Package idempotency remembers which order a checkout Idempotency-Key produced.
package idempotency

import (
	"context"
	"log/slog"
	"time"

	"rentalhub/config"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const (
	keyPrefix    = "checkout:idempotency:"
	pendingValue = "pending"
)

// reserveScript claims KEYS[1] unless it exists and returns the stored value.
// ARGV[1] = pending marker
// ARGV[2] = ttl in milliseconds
var reserveScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current then
    return current
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return ""
`)

// releaseScript deletes KEYS[1] only while it still holds the pending marker.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore implements service.IdempotencyStore on Redis so every API replica shares keys.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a store over an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Reserve(ctx context.Context, key string, ttl time.Duration) (uuid.UUID, error) {
	current, err := reserveScript.Run(ctx, s.client, []string{keyPrefix + key}, pendingValue, ttl.Milliseconds()).Text()
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "reserve idempotency key")
	}

	switch current {
	case "":
		return uuid.Nil, nil
	case pendingValue:
		return uuid.Nil, service.ErrIdempotencyKeyInFlight
	default:
		orderID, err := uuid.Parse(current)
		if err != nil {
			return uuid.Nil, errors.Wrapf(err, "corrupt idempotency value for %q", key)
		}

		return orderID, nil
	}
}

func (s *RedisStore) Complete(ctx context.Context, key string, orderID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+key, orderID.String(), ttl).Err(); err != nil {
		return errors.Wrap(err, "complete idempotency key")
	}

	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, s.client, []string{keyPrefix + key}, pendingValue).Err(); err != nil {
		return errors.Wrap(err, "release idempotency key")
	}

	return nil
}

// StoreParams holds dependencies for the idempotency store, injected by Fx
type StoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewStore picks the Redis or in-memory store from checkout.idempotencyDriver.
func NewStore(params StoreParams) (service.IdempotencyStore, error) {
	driver := params.Config.Checkout.IdempotencyDriver

	switch driver {
	case "", constants.IdempotencyDriverMemory:
		params.Logger.Info("Using in-memory idempotency store")

		return NewMemoryStore(), nil

	case constants.IdempotencyDriverRedis:
		redisCfg := params.Config.Redis
		if redisCfg == nil || redisCfg.Addr == "" {
			return nil, errors.New("redis address is required for the redis idempotency driver")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})

		params.Lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return errors.Wrap(err, "failed to ping Redis")
				}
				params.Logger.Info("Redis idempotency store connected", slog.String("addr", redisCfg.Addr))

				return nil
			},
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})

		return NewRedisStore(client), nil

	default:
		return nil, errors.Errorf("unknown idempotency driver: %s", driver)
	}
}
