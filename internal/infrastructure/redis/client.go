package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"github.com/authflow/session-gateway/internal/config"
)

// NewClient creates a Redis client with bounded dial/read/write timeouts and
// performs a startup health check. A hung store call must never hold a
// request open; the per-operation deadlines here are the backstop under the
// request context timeout.
func NewClient(cfg config.RedisConfig) (*goRedis.Client, error) {
	opts, err := goRedis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	if cfg.OperationTimeout > 0 {
		opts.DialTimeout = cfg.OperationTimeout
		opts.ReadTimeout = cfg.OperationTimeout
		opts.WriteTimeout = cfg.OperationTimeout
	}
	// Validation is a single attempt per request; no client-side retries.
	opts.MaxRetries = -1

	client := goRedis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
