// Command api serves the storefront HTTP API.
//
// @title                       Storefront API
// @version                     1.0
// @description                 Accounts, catalog and token-based authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront-api/internal/api"
	"github.com/99minutos/storefront-api/internal/api/handler"
	"github.com/99minutos/storefront-api/internal/core/domain"
	"github.com/99minutos/storefront-api/internal/core/ports"
	"github.com/99minutos/storefront-api/internal/core/service"
	mongostore "github.com/99minutos/storefront-api/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/storefront-api/internal/infrastructure/db/redis"
	"github.com/99minutos/storefront-api/internal/infrastructure/security"
	"github.com/99minutos/storefront-api/internal/pkg/config"
	"github.com/99minutos/storefront-api/pkg/logger"
)

const serviceName = "storefront-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	hasher, err := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("init hasher: %w", err)
	}
	issuer, err := security.NewJWTIssuer(cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("init token issuer: %w", err)
	}

	accounts := service.NewAccountDirectory(st.accounts, hasher, logger.Component("accounts"))
	catalog := service.NewCatalogDirectory(st.items, logger.Component("catalog"))
	auth := service.NewAuthService(accounts, issuer, cfg.Auth.JWTExpiration, logger.Component("auth"))

	e := api.NewRouter(api.Dependencies{
		Auth:           auth,
		Accounts:       accounts,
		Catalog:        catalog,
		HealthChecks:   st.health,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().
			Str("addr", addr).
			Str("backend", cfg.Storage.Backend).
			Str("users", cfg.Storage.UsersCollection).
			Str("products", cfg.Storage.ProductsCollection).
			Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("shutdown complete")
	return nil
}

type stores struct {
	accounts ports.AccountStore
	items    ports.ItemStore
	health   map[string]handler.HealthCheck
	close    func()
}

// openStores connects the configured backend and prepares both collections.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		return &stores{
			accounts: redisstore.NewRecordStore[domain.AccountRecord, *domain.AccountRecord](client, cfg.Storage.UsersCollection, ports.AccountIndexes()),
			items:    redisstore.NewRecordStore[domain.Item, *domain.Item](client, cfg.Storage.ProductsCollection, ports.ItemIndexes()),
			health:   map[string]handler.HealthCheck{"redis": redisstore.HealthCheck(client)},
			close:    func() { _ = client.Close() },
		}, nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		disconnect := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}

		accounts := mongostore.NewRecordStore(db, cfg.Storage.UsersCollection, ports.AccountIndexes())
		items := mongostore.NewRecordStore(db, cfg.Storage.ProductsCollection, ports.ItemIndexes())
		for _, s := range []interface{ EnsureIndexes(context.Context) error }{accounts, items} {
			if err := s.EnsureIndexes(ctx); err != nil {
				disconnect()
				return nil, err
			}
		}

		return &stores{
			accounts: accounts,
			items:    items,
			health:   map[string]handler.HealthCheck{"mongodb": mongostore.HealthCheck(db)},
			close:    disconnect,
		}, nil
	}
}
