// Package main implements the stagebase catalogue API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/stagebase/stagebase/engine/catalogue"
	"github.com/stagebase/stagebase/pkg/fn"
	"github.com/stagebase/stagebase/pkg/metrics"
	"github.com/stagebase/stagebase/pkg/mid"
	"github.com/stagebase/stagebase/pkg/repo"
	"github.com/stagebase/stagebase/pkg/resilience"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

// connectRetry bounds the wait for Neo4j at startup.
var connectRetry = fn.RetryOpts{
	MaxAttempts: 5,
	InitialWait: time.Second,
	MaxWait:     10 * time.Second,
	Jitter:      true,
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to Neo4j ---
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(context.Background())

	verified := fn.Retry(ctx, connectRetry, func(ctx context.Context) fn.Result[struct{}] {
		if err := driver.VerifyConnectivity(ctx); err != nil {
			logger.Warn("neo4j not reachable yet", "url", cfg.Neo4jURL, "err", err)
			return fn.Err[struct{}](err)
		}
		return fn.Ok(struct{}{})
	})
	if _, err := verified.Unwrap(); err != nil {
		return fmt.Errorf("neo4j verify: %w", err)
	}

	m := metrics.New()
	store := repo.NewNeo4jStore(driver,
		repo.WithDatabase(cfg.Neo4jDatabase),
		repo.WithQueryHook(m.ObserveQuery),
	)

	opts := []catalogue.Option{
		catalogue.WithLogger(logger),
		catalogue.WithMetrics(m),
		catalogue.WithMaxDepth(cfg.MaxChainDepth),
	}

	// --- Connect to NATS (optional) ---
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("stagebase-api"), nats.MaxReconnects(-1))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Drain()
		breaker := resilience.NewBreaker(resilience.BreakerOpts{
			OnStateChange: func(from, to resilience.State) {
				logger.Warn("event publisher breaker", "from", from.String(), "to", to.String())
			},
		})
		opts = append(opts, catalogue.WithPublisher(catalogue.BreakerPublisher{
			Next:    catalogue.NATSPublisher{Conn: nc},
			Breaker: breaker,
		}))
	}

	cat := catalogue.New(store, opts...)

	// --- Build HTTP server ---
	s := newServer(cat, store, m, logger)
	handler := mid.Chain(s.routes(),
		mid.Recover(logger),
		mid.RequestID(),
		mid.OTel("stagebase-api"),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(cfg.RateLimit, cfg.RateBurst),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "max_chain_depth", cfg.MaxChainDepth, "events", cfg.NATSURL != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
