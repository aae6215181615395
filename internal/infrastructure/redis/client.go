// Package redis holds state shared between replicas: the /api rate-limit
// counters and refresh-token sessions.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every key the service writes.
const keyPrefix = "nutrition:"

const (
	pingTimeout = 2 * time.Second
	ioTimeout   = 500 * time.Millisecond
)

type Client struct {
	rdb    *goredis.Client
	prefix string
}

// New dials lazily; use Ping to check reachability. Short IO timeouts keep a
// slow Redis from stalling requests that the limiter would let through anyway.
func New(addr, password string, db int) *Client {
	return NewFromRedis(goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  pingTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	}))
}

func NewFromRedis(rdb *goredis.Client) *Client {
	return &Client{rdb: rdb, prefix: keyPrefix}
}

func (c *Client) key(k string) string { return c.prefix + k }

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
