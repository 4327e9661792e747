package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"pet-clinic-billing/internal/adapters/auth/identity"
	"pet-clinic-billing/internal/adapters/loyalty"
	pg "pet-clinic-billing/internal/adapters/storage/postgres"
	"pet-clinic-billing/internal/config"
	"pet-clinic-billing/internal/domain/pricing"
	"pet-clinic-billing/internal/platform/logger"
	"pet-clinic-billing/internal/ports/auth"
	"pet-clinic-billing/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pet-clinic-billing: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DatabaseDSN != "" {
		db, err = pg.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := pg.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("postgres ready")
	} else {
		log.Warn("DB_DSN not set, using in-memory storage")
	}

	engine, err := cfg.Pricing.Engine()
	if err != nil {
		return err
	}
	defaultTier, err := pricing.TierByName(cfg.DefaultTier)
	if err != nil {
		return err
	}

	// sin servicio de identidad: modo dev con X-Debug-User-ID
	var verifier auth.AuthVerifier
	idClient := identity.NewClient(identity.Config{
		BaseURL: cfg.Auth.BaseURL,
		APIKey:  cfg.Auth.APIKey,
		Timeout: cfg.Auth.Timeout,
	})
	if idClient.IsConfigured() {
		verifier = identity.NewVerifier(idClient)
	} else {
		log.Warn("identity service not configured, accepting X-Debug-User-ID")
	}

	loyaltyClient := loyalty.NewClient(loyalty.Config{
		BaseURL: cfg.Loyalty.BaseURL,
		APIKey:  cfg.Loyalty.APIKey,
		Timeout: cfg.Loyalty.Timeout,
	})
	if !loyaltyClient.IsConfigured() {
		log.Info("loyalty service not configured, using default tier", zap.String("tier", defaultTier.Name))
	}

	h, err := router.NewRouter(router.Options{
		AuthVerifier:    verifier,
		DB:              db,
		Logger:          log,
		Engine:          engine,
		BaseCharge:      cfg.Pricing.BaseCharge,
		BasePricePerPet: cfg.Pricing.BasePricePerPet,
		Tiers:           loyalty.NewResolver(loyaltyClient, defaultTier),
		DefaultTier:     defaultTier,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
