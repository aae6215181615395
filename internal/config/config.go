package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env   string // dev / staging / prod
	Store string // postgres / memory

	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	DBAddr  string
	DBDebug bool

	// Redis and RabbitMQ are optional: rate limiting falls back to an
	// in-process limiter and user events to a no-op publisher.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitURL      string
	RabbitExchange string

	// Requests per minute per client on /api. 0 disables limiting.
	RateLimitPerMinute int

	// Install default units / meal types into empty tables at startup.
	SeedCatalog bool

	// Token issuing. An empty secret is only accepted in dev, where a
	// per-process secret is generated at startup.
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// minJWTSecretLen matches HS256's 256-bit key size.
const minJWTSecretLen = 32

// Load reads configuration from the environment after applying ./.env.
// Malformed values fail with the variable name in the error.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	var e env
	cfg := &Config{
		Env:              e.str("ENV", "dev"),
		Store:            strings.ToLower(e.str("STORE", StorePostgres)),
		HTTPAddr:         e.str("HTTP_ADDR", ":8080"),
		HTTPReadTimeout:  e.duration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: e.duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:  e.duration("HTTP_IDLE_TIMEOUT", time.Minute),

		DBAddr:  os.Getenv("DB_ADDR"),
		DBDebug: e.boolean("DB_DEBUG", false),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       e.integer("REDIS_DB", 0),

		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: e.str("RABBIT_EXCHANGE", "nutrition.events"),

		RateLimitPerMinute: e.integer("RATE_LIMIT_PER_MINUTE", 120),
		SeedCatalog:        e.boolean("SEED_CATALOG", true),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       e.str("JWT_ISSUER", "nutrition-service"),
		AccessTokenTTL:  e.duration("JWT_ACCESS_TTL", time.Hour),
		RefreshTokenTTL: e.duration("JWT_REFRESH_TTL", 7*24*time.Hour),
	}
	if e.err != nil {
		return nil, e.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres:
		// The service cannot operate without its database; fail fast.
		if c.DBAddr == "" {
			return errors.New("missing required env var: DB_ADDR")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("invalid STORE: %q (want postgres or memory)", c.Store)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be >= 0, got %d", c.RateLimitPerMinute)
	}
	switch {
	case c.JWTSecret == "" && c.Env != "dev":
		return errors.New("missing required env var: JWT_SECRET")
	case c.JWTSecret != "" && len(c.JWTSecret) < minJWTSecretLen:
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLen)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL and JWT_REFRESH_TTL must be positive")
	}
	return nil
}

// LoadDotEnv applies ./.env when present without overriding set variables.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// env parses variables and keeps the first failure, so Load can read
// everything in one expression and check once.
type env struct{ err error }

func (e *env) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != "" && e.err == nil
}

func (e *env) fail(key, kind, v string, err error) {
	e.err = fmt.Errorf("invalid %s for %s: %q: %w", kind, key, v, err)
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return def
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, "duration", v, err)
		return def
	}
	return d
}

func (e *env) integer(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, "int", v, err)
		return def
	}
	return n
}

func (e *env) boolean(key string, def bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, "bool", v, err)
		return def
	}
	return b
}
