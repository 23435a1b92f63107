package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	accountrepo "storefront/internal/repository/account"
	cartrepo "storefront/internal/repository/cart"
	orderrepo "storefront/internal/repository/order"
	profilerepo "storefront/internal/repository/profile"
	tokenrepo "storefront/internal/repository/token"
	"storefront/internal/service/identity"
	profilesvc "storefront/internal/service/profile"
	"storefront/internal/session"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg := config.Load(logger)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.Pool())
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	tokens, closeTokens, err := tokenStore(ctx, cfg, dbpool, logger)
	if err != nil {
		logger.Fatalf("token store: %v", err)
	}
	defer closeTokens()

	menu, err := catalog.NewFromSource(cfg.CatalogCSV)
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}

	identityService := identity.New(accountrepo.NewPostgres(dbpool, logger), tokens, identity.Options{
		Logger:        logger,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	profileService := profilesvc.New(identityService, profilerepo.NewPostgres(dbpool, logger), logger)
	sessions := session.NewManager(identityService, cartrepo.NewPostgres(dbpool, logger), orderrepo.NewPostgres(dbpool, logger), logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:     menu,
		Identity:    identityService,
		Profiles:    profileService,
		Sessions:    sessions,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}
	sessions.OnRelease = srv.ReleaseDevice
	sessions.Start()
	defer sessions.Close()

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	if cfg.SessionIdle > 0 {
		go sessions.PruneEvery(pruneCtx, cfg.SessionIdle/4, cfg.SessionIdle)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s env=%s token_store=%s", cfg.HTTPAddr, cfg.AppEnv, cfg.TokenStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// tokenStore picks the token backend named by TOKEN_STORE.
func tokenStore(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, logger *log.Logger) (tokenrepo.Repository, func(), error) {
	noop := func() {}
	switch cfg.TokenStore {
	case "", "postgres":
		return tokenrepo.NewPostgres(pool, logger), noop, nil
	case "memory":
		logger.Printf("token store is in-memory; sessions will not survive a restart")
		return tokenrepo.NewMemory(), noop, nil
	case "redis":
		client, err := db.ConnectRedis(ctx, cfg.Redis())
		if err != nil {
			return nil, nil, err
		}
		return tokenrepo.NewRedis(client, logger), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown TOKEN_STORE %q", cfg.TokenStore)
	}
}
