// Package metrics counts service activity (reads, applies, errors) in
// Redis so an operator can watch request volume without scraping logs.
// It is optional: a service started with no REDIS_ADDR runs with a no-op
// sink and behaves identically otherwise.
package metrics

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// client wraps the Redis client with connection diagnostics, the way the
// teacher's redis.Client does for its repositories.
type client struct {
	*redis.Client
	log *zap.Logger
}

func newClient(addr string, log *zap.Logger) *client {
	opts := &redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 1,
		MaxRetries:   3,
	}

	c := &client{
		Client: redis.NewClient(opts),
		log:    log.Named("metrics-redis"),
	}

	c.ping(context.Background())
	return c
}

func (c *client) ping(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.Client.Ping(ctx).Err()
	elapsed := time.Since(start)

	if err != nil {
		c.log.Warn("connection failed", zap.Error(err), zap.Duration("ping_rtt", elapsed))
		return
	}
	c.log.Info("connection established", zap.Duration("ping_rtt", elapsed))
}
