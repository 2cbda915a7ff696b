package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all environment-based configuration.
type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	Neo4jURL      string `env:"NEO4J_URL" envDefault:"neo4j://localhost:7687"`
	Neo4jUser     string `env:"NEO4J_USER" envDefault:"neo4j"`
	Neo4jPass     string `env:"NEO4J_PASS" envDefault:"password"`
	Neo4jDatabase string `env:"NEO4J_DATABASE"`

	// NATSURL enables change events when set.
	NATSURL string `env:"NATS_URL"`

	RateLimit     float64 `env:"RATE_LIMIT" envDefault:"50"`
	RateBurst     int     `env:"RATE_BURST" envDefault:"100"`
	MaxChainDepth int     `env:"MAX_CHAIN_DEPTH" envDefault:"10"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func loadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxChainDepth <= 0 {
		return Config{}, fmt.Errorf("MAX_CHAIN_DEPTH must be positive, got %d", cfg.MaxChainDepth)
	}
	return cfg, nil
}

// Level maps LOG_LEVEL to a slog level; unknown values mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
