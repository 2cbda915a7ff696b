package main

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.MaxChainDepth != 10 {
		t.Fatalf("expected default depth 10, got %d", cfg.MaxChainDepth)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("RATE_LIMIT", "2.5")
	t.Setenv("READ_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "9090" || cfg.NATSURL != "nats://localhost:4222" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RateLimit != 2.5 || cfg.ReadTimeout != 3*time.Second {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.Level())
	}
}

func TestLoadConfigRejectsBadDepth(t *testing.T) {
	t.Setenv("MAX_CHAIN_DEPTH", "0")
	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error for zero depth")
	}
}

func TestLoadConfigRejectsMalformed(t *testing.T) {
	t.Setenv("RATE_BURST", "lots")
	if _, err := loadConfig(); err == nil {
		t.Fatal("expected parse error")
	}
}
