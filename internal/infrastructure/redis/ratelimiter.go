package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Decision is the outcome of one limiter hit.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Count      int
	RetryAfter time.Duration // zero when allowed
	ResetAt    time.Time
}

// incrWindow bumps KEYS[1], arms the expiry on the first hit and
// returns {count, pttl}. Running it as one script keeps INCR and PEXPIRE
// atomic, so a crash between them cannot leave an immortal counter.
var incrWindow = goredis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// FixedWindowLimiter counts hits per caller-supplied key. Callers put the
// route, identity and window bucket into the key.
type FixedWindowLimiter struct {
	c *Client
}

func NewFixedWindowLimiter(c *Client) *FixedWindowLimiter {
	return &FixedWindowLimiter{c: c}
}

// AllowFixedWindow records a hit on key and reports whether it fits in
// limit per window. A nil client or a non-positive limit always allows.
func (l *FixedWindowLimiter) AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if l.c == nil || limit <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: max(limit, 0)}, nil
	}
	if window < time.Millisecond {
		window = time.Minute
	}

	vals, err := incrWindow.Run(ctx, l.c.rdb, []string{l.c.key(key)}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit %s: %w", key, err)
	}
	if len(vals) != 2 {
		return Decision{}, fmt.Errorf("ratelimit %s: want 2 values, got %d", key, len(vals))
	}

	count := int(vals[0])
	ttl := time.Duration(vals[1]) * time.Millisecond
	if ttl <= 0 {
		ttl = window
	}

	d := Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		Count:     count,
		ResetAt:   time.Now().Add(ttl),
	}
	if !d.Allowed {
		d.RetryAfter = ttl
	}
	return d, nil
}
