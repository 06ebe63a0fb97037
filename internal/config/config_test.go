package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"DASHBOARD_ADDR", "SWAPSHOP_API_URL", "NOTIFICATIONS_URL", "SYNC_INTERVAL",
		"HTTP_TIMEOUT", "NOTIF_PAGE_SIZE", "AUTO_REFRESH", "SESSION_STORE",
		"SESSION_DB_PATH", "REDIS_ADDR", "LOG_LEVEL", "OTEL_ENABLED",
	} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.SyncInterval != 3*time.Second {
		t.Errorf("sync interval: %v", cfg.SyncInterval)
	}
	if cfg.PageSize != 3 {
		t.Errorf("page size: %d", cfg.PageSize)
	}
	if !cfg.AutoRefresh {
		t.Error("auto-refresh should default on")
	}
	if cfg.SessionStore != StoreSQLite {
		t.Errorf("session store: %q", cfg.SessionStore)
	}
	if cfg.OTelEnabled {
		t.Error("tracing should default off")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SYNC_INTERVAL", "500ms")
	t.Setenv("NOTIF_PAGE_SIZE", "5")
	t.Setenv("AUTO_REFRESH", "false")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.SyncInterval != 500*time.Millisecond || cfg.PageSize != 5 || cfg.AutoRefresh ||
		cfg.SessionStore != StoreRedis || !cfg.OTelEnabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("SYNC_INTERVAL", "soon")
	t.Setenv("NOTIF_PAGE_SIZE", "three")

	_, err := FromEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "SYNC_INTERVAL") || !strings.Contains(err.Error(), "NOTIF_PAGE_SIZE") {
		t.Fatalf("expected both keys reported, got %v", err)
	}
}

func TestValidate_SessionStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "postgres")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected unknown store to be rejected")
	}
}
