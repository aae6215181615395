package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/infrastructure/redis"
	"github.com/baechuer/nutrition-service/internal/logger"
	appCtx "github.com/baechuer/nutrition-service/internal/pkg/context"
)

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

type RateLimiter interface {
	AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

type FixedWindowConfig struct {
	RouteKey string
	Limit    int
	Window   time.Duration
}

func (c FixedWindowConfig) withDefaults() FixedWindowConfig {
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.RouteKey == "" {
		c.RouteKey = "unknown"
	}
	return c
}

// RateLimitFixedWindow allows cfg.Limit requests per client IP per window.
// The counter lives behind limiter so replicas share it. If the limiter
// errors the request goes through.
func RateLimitFixedWindow(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		if limiter == nil || cfg.Limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limitKey(cfg, clientIP(r), time.Now())

			dec, err := limiter.AllowFixedWindow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn().
					Err(err).
					Str("route", cfg.RouteKey).
					Msg("rate limiter unavailable; allowing request")
				next.ServeHTTP(w, r)
				return
			}

			setLimitHeaders(w.Header(), dec)
			if dec.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			RateLimitedTotal.WithLabelValues(cfg.RouteKey).Inc()
			writeErr(w, r, domain.ErrRateLimited(cfg.RouteKey))
		})
	}
}

// limitKey is rl:<route>:ip:<addr>:<window number>.
func limitKey(cfg FixedWindowConfig, ip string, now time.Time) string {
	return "rl:" + cfg.RouteKey + ":ip:" + ip + ":" + strconv.FormatInt(windowBucket(now, cfg.Window), 10)
}

func windowBucket(now time.Time, window time.Duration) int64 {
	sec := int64(window / time.Second)
	if sec <= 0 {
		sec = 60
	}
	return now.Unix() / sec
}

// setLimitHeaders runs before any body is written; Retry-After only on denial.
func setLimitHeaders(h http.Header, dec redis.Decision) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
	if !dec.ResetAt.IsZero() {
		h.Set("X-RateLimit-Reset", strconv.FormatInt(dec.ResetAt.Unix(), 10))
	}
	if !dec.Allowed && dec.RetryAfter > 0 {
		secs := int((dec.RetryAfter + time.Second - 1) / time.Second)
		h.Set("Retry-After", strconv.Itoa(secs))
	}
}

// clientIP prefers the address RequestID recorded on the context.
func clientIP(r *http.Request) string {
	if ip := appCtx.GetClientIP(r.Context()); ip != "" {
		return ip
	}
	return remoteHost(r.RemoteAddr)
}
