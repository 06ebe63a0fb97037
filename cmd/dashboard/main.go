package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jcmexdev/swapshop-dashboard/internal/config"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/app"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/auth"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/session"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/infra/adapters/service"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/infra/httpx"
	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/kvstore"
	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/kvstore/sqlite"
	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "local API listen address")
	flag.StringVar(&cfg.APIURL, "api", cfg.APIURL, "Swap Shop API base URL")
	flag.StringVar(&cfg.NotificationsURL, "notifications", cfg.NotificationsURL, "notification service base URL")
	flag.DurationVar(&cfg.SyncInterval, "interval", cfg.SyncInterval, "polling interval")
	flag.BoolVar(&cfg.AutoRefresh, "auto-refresh", cfg.AutoRefresh, "start polling on login")
	flag.StringVar(&cfg.SessionStore, "store", cfg.SessionStore, "session store: sqlite, redis or memory")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTelEnabled {
		shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	} else {
		telemetry.SetupPropagators()
	}

	kv, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open session store", "store", cfg.SessionStore, "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	hc := service.NewHTTPClient(cfg.HTTPTimeout)

	dashboard := app.New(
		session.NewStore(kv, logger),
		auth.NewFlow(service.NewHTTPAuthService(cfg.APIURL, hc)),
		service.NewOrderServiceFactory(cfg.APIURL, hc),
		service.NewHTTPNotificationFeed(cfg.NotificationsURL, hc),
		app.Config{
			SyncInterval: cfg.SyncInterval,
			PageSize:     cfg.PageSize,
			AutoRefresh:  cfg.AutoRefresh,
		},
		logger,
	)
	if err := dashboard.Boot(ctx); err != nil {
		slog.Error("failed to boot dashboard", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpx.NewRouter(httpx.NewHandler(dashboard)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("dashboard API running",
			"addr", cfg.Addr,
			"api", cfg.APIURL,
			"notifications", cfg.NotificationsURL,
			"state", dashboard.State().String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
	dashboard.Shutdown()
}

func openStore(cfg config.Config) (kvstore.Store, error) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		return kvstore.NewRedis(cfg.RedisAddr, "dashboard"), nil
	case config.StoreMemory:
		return kvstore.NewMemory(), nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Dir(cfg.SessionDBPath), err)
		}
		return sqlite.Open(cfg.SessionDBPath)
	}
}
