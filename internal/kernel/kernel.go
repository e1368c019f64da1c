// Package kernel wires configuration, storage, services and the HTTP
// middleware stack into a runnable application.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/routes"
	"github.com/shashiranjanraj/catalogapi/app/services"
	"github.com/shashiranjanraj/catalogapi/config"
	"github.com/shashiranjanraj/catalogapi/pkg/auth"
	"github.com/shashiranjanraj/catalogapi/pkg/cache"
	"github.com/shashiranjanraj/catalogapi/pkg/database"
	"github.com/shashiranjanraj/catalogapi/pkg/logger"
	"github.com/shashiranjanraj/catalogapi/pkg/metrics"
	"github.com/shashiranjanraj/catalogapi/pkg/middleware"
	"github.com/shashiranjanraj/catalogapi/pkg/reqid"
	"github.com/shashiranjanraj/catalogapi/pkg/response"
	"github.com/shashiranjanraj/catalogapi/pkg/router"
)

// Options tune the HTTP kernel.
type Options struct {
	APIPrefix string
	// RateLimit is requests per client per minute. Zero disables limiting.
	RateLimit int
	CacheTTL  time.Duration
}

// OptionsFromEnv reads API_PREFIX, RATE_LIMIT and CACHE_TTL.
func OptionsFromEnv() Options {
	return Options{
		APIPrefix: config.APIPrefix(),
		RateLimit: config.RateLimit(),
		CacheTTL:  config.CacheTTL(),
	}
}

// Kernel holds the booted application.
type Kernel struct {
	DB       *gorm.DB
	Cache    cache.Store
	Tokens   *auth.Issuer
	Services routes.Services
	Router   *router.Router

	closers []func() error
}

// New builds the services and the router on an open database.
func New(db *gorm.DB, store cache.Store, tokens *auth.Issuer, opts Options) (*Kernel, error) {
	k := &Kernel{
		DB:     db,
		Cache:  store,
		Tokens: tokens,
		Services: routes.Services{
			Auth:       services.NewAuthService(db, tokens),
			Categories: services.NewCategoryService(db, store, opts.CacheTTL),
			Products:   services.NewProductService(db, store, opts.CacheTTL),
			Orders:     services.NewOrderService(db, store),
		},
		Router: router.New(),
	}

	r := k.Router
	// Outermost first: metrics sees total latency, recovery runs before
	// anything that could panic, the request id exists before the first log.
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
	)
	if opts.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(opts.RateLimit, time.Minute).Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", k.health)

	if err := routes.RegisterAPI(r, opts.APIPrefix, k.Services, tokens); err != nil {
		return nil, fmt.Errorf("kernel: register routes: %w", err)
	}
	return k, nil
}

// Boot loads configuration and opens the database and cache. The caller
// must Close the kernel.
func Boot(ctx context.Context) (*Kernel, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("kernel: load config: %w", err)
	}

	db, err := database.Open(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	closers := []func() error{func() error { return database.Close(db) }}

	store := openCache(ctx)
	if c, ok := store.(interface{ Close() error }); ok {
		closers = append(closers, c.Close)
	}

	k, err := New(db, store, auth.NewIssuer(config.JWTSecret(), config.JWTTTL()), OptionsFromEnv())
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	k.closers = closers
	return k, nil
}

// openCache uses Redis when REDIS_ADDR is set and reachable, otherwise an
// in-process store.
func openCache(ctx context.Context) cache.Store {
	addr := config.RedisAddr()
	if addr == "" {
		return cache.NewMemory()
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	r, err := cache.NewRedis(pingCtx, addr, config.RedisPassword(), "catalog:")
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", "addr", addr, "error", err)
		return cache.NewMemory()
	}
	logger.Info("cache connected", "driver", "redis", "addr", addr)
	return r
}

func (k *Kernel) Handler() http.Handler { return k.Router.Handler() }

// Close releases the cache and database connections.
func (k *Kernel) Close() error {
	var errs []error
	for i := len(k.closers) - 1; i >= 0; i-- {
		errs = append(errs, k.closers[i]())
	}
	return errors.Join(errs...)
}

func (k *Kernel) health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := k.DB.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("health check failed", "error", err)
		response.Error(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
