package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// ThrottleStore backs OTP rate limiting with a SETNX-per-phone key so the
// window holds across server replicas.
type ThrottleStore struct {
	log    *logger.Logger
	client *redis.Client
}

func NewThrottleStore(baseLog *logger.Logger, client *redis.Client) *ThrottleStore {
	return &ThrottleStore{
		log:    baseLog.With("client", "RedisThrottleStore"),
		client: client,
	}
}

func (t *ThrottleStore) Allow(ctx context.Context, phone string, window time.Duration) (bool, error) {
	key := "otp:throttle:" + phone
	ok, err := t.client.SetNX(ctx, key, time.Now().Unix(), window).Result()
	if err != nil {
		return false, fmt.Errorf("redis: setnx %s: %w", key, err)
	}
	return ok, nil
}
