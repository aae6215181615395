package bootstrap

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/nutrition-service/internal/application/auth"
	"github.com/baechuer/nutrition-service/internal/application/catalog"
	"github.com/baechuer/nutrition-service/internal/application/permission"
	"github.com/baechuer/nutrition-service/internal/application/role"
	"github.com/baechuer/nutrition-service/internal/application/user"
	"github.com/baechuer/nutrition-service/internal/config"
	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/nutrition-service/internal/infrastructure/memory"
	"github.com/baechuer/nutrition-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/nutrition-service/internal/infrastructure/redis"
	"github.com/baechuer/nutrition-service/internal/infrastructure/security"
	"github.com/baechuer/nutrition-service/internal/logger"
	http_handlers "github.com/baechuer/nutrition-service/internal/transport/http/handlers"
	"github.com/baechuer/nutrition-service/internal/transport/http/middleware"
	"github.com/baechuer/nutrition-service/internal/transport/http/response"
	"github.com/baechuer/nutrition-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string, debug bool) (*sql.DB, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface {
	user.EventPublisher
	Close() error
}

// repos is the storage backend selected by STORE.
type repos struct {
	users       user.Repo
	roles       role.Repo
	permissions permission.Repo
	catalog     catalog.Repo
	checks      []http_handlers.Check
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) store
	st, closeStore, err := openStore(cfg, deps.NewDB)
	if err != nil {
		return nil, nil, err
	}
	if closeStore != nil {
		cleanupFns = append(cleanupFns, closeStore)
	}

	// 2) seed: the role directory must be complete before serving
	roleSvc := role.NewService(st.roles)
	catalogSvc := catalog.NewService(st.catalog)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSeed()

	if _, err := roleSvc.Seed(seedCtx); err != nil {
		return fail(fmt.Errorf("seed roles: %w", err))
	}
	if cfg.SeedCatalog {
		if _, err := catalogSvc.Seed(seedCtx); err != nil {
			return fail(fmt.Errorf("seed catalog: %w", err))
		}
	}

	// 3) redis (best-effort)
	readiness := st.checks
	var redisCli RedisClient
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process rate limiter and sessions")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			readiness = append(readiness, http_handlers.Check{Name: "redis", Ping: c.Ping, Optional: true})
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 4) publisher
	var pub user.EventPublisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		case cfg.Env == "dev":
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			return fail(err)
		}
	}

	// 5) services + handlers
	userSvc := user.NewService(st.users, pub)
	permSvc := permission.NewService(st.permissions, roleSvc)

	secret, err := jwtSecret(cfg)
	if err != nil {
		return fail(err)
	}
	authSvc := auth.NewService(
		st.users,
		security.NewJWTSigner(secret, cfg.JWTIssuer),
		sessionStore(redisCli),
		authConfig(cfg),
	)

	userH := http_handlers.NewUserHandler(userSvc, roleSvc)
	roleH := http_handlers.NewRoleHandler(roleSvc)
	permH := http_handlers.NewPermissionHandler(permSvc)
	catalogH := http_handlers.NewCatalogHandler(catalogSvc)
	authH := http_handlers.NewAuthHandler(authSvc)
	healthH := http_handlers.NewHealthHandler(readiness...)

	// 6) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      healthH,
		Users:       userH,
		Roles:       roleH,
		Permissions: permH,
		Catalog:     catalogH,
		Auth:        authH,
		RateLimitMW: rateLimitMW(cfg.RateLimitPerMinute, redisCli),
		Metrics:     promhttp.Handler(),
	})
	if err != nil {
		return fail(err)
	}

	// 7) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	logger.Logger.Info().
		Str("env", cfg.Env).
		Str("store", cfg.Store).
		Bool("redis", redisCli != nil).
		Int("rate_limit_per_minute", cfg.RateLimitPerMinute).
		Msg("server wired")

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

func openStore(cfg *config.Config, newDB func(string, bool) (*sql.DB, error)) (repos, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		s := memory.NewStore()
		return repos{
			users:       memory.NewUserRepo(s),
			roles:       memory.NewRoleRepo(s),
			permissions: memory.NewPermissionRepo(s),
			catalog:     memory.NewCatalogRepo(s),
		}, nil, nil

	case config.StorePostgres:
		db, err := newDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return repos{}, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return repos{}, nil, err
		}
		return repos{
			users:       postgres.NewUserRepo(db),
			roles:       postgres.NewRoleRepo(db),
			permissions: postgres.NewPermissionRepo(db),
			catalog:     postgres.NewCatalogRepo(db),
			checks:      []http_handlers.Check{http_handlers.PingCheck("postgres", db)},
		}, func() { _ = db.Close() }, nil

	default:
		return repos{}, nil, fmt.Errorf("bootstrap: unknown store %q", cfg.Store)
	}
}

// rateLimitMW prefers the shared redis window; without redis each process
// limits on its own. A limit of 0 disables limiting.
func rateLimitMW(perMinute int, redisCli RedisClient) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return nil
	}
	if c, ok := redisCli.(*redis.Client); ok && c != nil {
		return middleware.RateLimitFixedWindow(
			redis.NewFixedWindowLimiter(c),
			middleware.FixedWindowConfig{
				RouteKey: "api",
				Limit:    perMinute,
				Window:   time.Minute,
			},
			response.WriteError,
		)
	}
	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			middleware.RateLimitedTotal.WithLabelValues("api").Inc()
			response.WriteError(w, r, domain.ErrRateLimited("api"))
		}),
	)
}

// jwtSecret returns the configured signing key. Config only lets it be empty
// in dev; there a random key is drawn, so tokens die with the process.
func jwtSecret(cfg *config.Config) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	logger.Logger.Warn().Msg("JWT_SECRET not set; using a per-process key")
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// sessionStore keeps refresh tokens in redis when it is up, so every
// replica sees the same sessions.
func sessionStore(redisCli RedisClient) auth.SessionStore {
	if c, ok := redisCli.(*redis.Client); ok && c != nil {
		return redis.NewSessionStore(c)
	}
	return memory.NewSessionStore()
}

func authConfig(cfg *config.Config) auth.Config {
	out := auth.Config{AccessTTL: cfg.AccessTokenTTL, RefreshTTL: cfg.RefreshTokenTTL}
	if out.AccessTTL <= 0 {
		out.AccessTTL = time.Hour
	}
	if out.RefreshTTL <= 0 {
		out.RefreshTTL = 7 * 24 * time.Hour
	}
	return out
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			p, err := rabbitmq.NewPublisher(url, exchange)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
