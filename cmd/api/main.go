// @title                       Catalog API
// @version                     1.0
// @description                 JWT-authenticated product catalog with role-based user registration.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/api"
	"github.com/99minutos/catalog-api/internal/api/handler"
	"github.com/99minutos/catalog-api/internal/core/ports"
	"github.com/99minutos/catalog-api/internal/core/service"
	"github.com/99minutos/catalog-api/internal/infrastructure/auth"
	"github.com/99minutos/catalog-api/internal/infrastructure/config"
	"github.com/99minutos/catalog-api/internal/infrastructure/db/memory"
	mongostore "github.com/99minutos/catalog-api/internal/infrastructure/db/mongo"
	"github.com/99minutos/catalog-api/internal/infrastructure/db/postgres"
	rediscache "github.com/99minutos/catalog-api/internal/infrastructure/db/redis"
	"github.com/99minutos/catalog-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction()})
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Auth infrastructure (fails fast without a signing key) ---
	issuer, err := auth.NewJWTIssuer(auth.JWTConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	if err != nil {
		return err
	}
	hasher, err := auth.NewBcryptHasher(cfg.Bcrypt.Cost)
	if err != nil {
		return err
	}

	// --- Stores ---
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	seeder := service.NewSeeder(st.users, st.products, hasher, service.SeedConfig{
		AdminUsername: cfg.Seed.AdminUsername,
		AdminPassword: cfg.Seed.AdminPassword,
	}, log)
	if err := seeder.Seed(ctx); err != nil {
		return err
	}

	// --- Services & router ---
	router := api.NewRouter(api.Deps{
		Auth:        service.NewAuthService(st.users, hasher, issuer, log),
		Products:    service.NewProductService(st.products, st.cache, cfg.PageSizeMax, log),
		Tokens:      issuer,
		Checks:      st.checks,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

type stores struct {
	users    ports.UserRepository
	products ports.ProductRepository
	cache    ports.ProductCache
	checks   map[string]handler.Pinger
	closers  []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects the configured backing store and the optional cache.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{checks: make(map[string]handler.Pinger)}

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = db.Close() })
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			st.close()
			return nil, err
		}
		st.users = postgres.NewUserRepository(db)
		st.products = postgres.NewProductRepository(db)
		st.checks["postgres"] = db.PingContext

	case config.StoreDriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Disconnect(context.Background()) })
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			st.close()
			return nil, err
		}
		st.users = mongostore.NewUserRepository(db)
		st.products = mongostore.NewProductRepository(db)
		st.checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	case config.StoreDriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		st.users = memory.NewUserRepository()
		st.products = memory.NewProductRepository()
	}

	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			st.close()
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = rdb.Close() })
		st.cache = rediscache.NewProductCache(rdb, cfg.Redis.CacheTTL)
		st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	return st, nil
}
