package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout    = 5 * time.Second
	defaultClientName = "compliance-api"
)

// Config holds the Redis settings of the token revocation list.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// ClientName is reported by CLIENT LIST; defaults to defaultClientName.
	ClientName string
	Timeout    time.Duration
}

func (c Config) options() *redis.Options {
	name := c.ClientName
	if name == "" {
		name = defaultClientName
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		ClientName:   name,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}

// Connect opens the client backing the revocation list and pings it. Every
// authenticated request reads from this client, so a failed ping aborts
// start-up.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := cfg.options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}
