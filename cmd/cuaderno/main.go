package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/tinoosan/cuaderno/internal/config"
	httpapi "github.com/tinoosan/cuaderno/internal/httpapi/v1"
	"github.com/tinoosan/cuaderno/internal/service/account"
	"github.com/tinoosan/cuaderno/internal/service/catalog"
	"github.com/tinoosan/cuaderno/internal/service/journal"
	"github.com/tinoosan/cuaderno/internal/service/report"
	"github.com/tinoosan/cuaderno/internal/storage"
	"github.com/tinoosan/cuaderno/internal/storage/memory"
	pgstore "github.com/tinoosan/cuaderno/internal/storage/postgres"
	redisstore "github.com/tinoosan/cuaderno/internal/storage/redis"
	sqlitestore "github.com/tinoosan/cuaderno/internal/storage/sqlite"
	"github.com/tinoosan/cuaderno/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "cuaderno:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logger := buildLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("storage close", "err", err)
		}
	}()
	logger.Info("storage backend: "+cfg.Driver(), "timezone", loc.String(), "currency", cfg.Currency)

	st := store.New(backend, cfg.Currency)
	// every service writing the store shares one lock; one writer at a time
	mu := &sync.Mutex{}
	accounts := account.New(st.Clientas, st.Cuentas, st.Movimientos,
		account.WithLogger(logger), account.WithLocker(mu), account.WithCurrency(cfg.Currency))
	journalSvc := journal.New(st.Cuentas, st.Movimientos,
		journal.WithLogger(logger), journal.WithLocker(mu))
	catalogSvc := catalog.New(st.Categorias, st.Gastos, catalog.WithLocker(mu))
	reports := report.New(report.Deps{
		Movimientos: st.Movimientos,
		Cuentas:     st.Cuentas,
		Clientas:    st.Clientas,
		Categorias:  st.Categorias,
		Gastos:      st.Gastos,
		Reportes:    st.Reportes,
	}, report.WithLogger(logger), report.WithLocation(loc), report.WithCurrency(cfg.Currency), report.WithLocker(mu))

	n, err := accounts.BackfillNumeros(ctx)
	if err != nil {
		return fmt.Errorf("backfill account numbers: %w", err)
	}
	if n > 0 {
		logger.Info("startup backfill", "numbered", n)
	}

	if cfg.DevSeed {
		seed, err := seedDev(ctx, accounts, journalSvc)
		switch {
		case errors.Is(err, errAlreadySeeded):
			logger.Info("dev seed skipped: data present")
		case err != nil:
			logger.Error("dev seed failed", "err", err)
		default:
			logger.Info("DEV seed ("+cfg.Driver()+")", "clienta_id", seed.Clienta.ID.String(), "cuenta_id", seed.Cuenta.ID.String())
			printDevSeedBanner(seed)
		}
	}

	api := httpapi.New(httpapi.Deps{
		Accounts:  accounts,
		Journal:   journalSvc,
		Catalog:   catalogSvc,
		Reports:   reports,
		Ready:     backend,
		Location:  loc,
		Currency:  cfg.Currency,
		JWTSecret: cfg.JWTSecret,
		JWTIssuer: cfg.JWTIssuer,
	}, logger)
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_HS256_SECRET not set: API is unauthenticated")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("cuaderno listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}
}

// openBackend connects the storage driver named by cfg.
func openBackend(ctx context.Context, cfg config.Config) (storage.Backend, error) {
	switch cfg.Driver() {
	case config.DriverPostgres:
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return pg, nil
	case config.DriverRedis:
		rs, err := redisstore.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return rs, nil
	case config.DriverSQLite:
		sq, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return sq, nil
	default:
		return memory.New(), nil
	}
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
