package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/telemetry"
	"github.com/jcmexdev/swapshop-dashboard/internal/swapshop-api/app"
)

func main() {
	telemetry.InitLogger(getEnv("LOG_LEVEL", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + getEnv("PORT", "8001")
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.NewServer().Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("swapshop API (in-memory) running", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to serve", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
