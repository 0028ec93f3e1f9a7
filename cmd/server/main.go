package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/skovmand/advent-of-code-2017/internal/api"
	"github.com/skovmand/advent-of-code-2017/internal/config"
	"github.com/skovmand/advent-of-code-2017/internal/engine"
	"github.com/skovmand/advent-of-code-2017/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "configs/balance.yaml", "Path to service YAML config")
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	flag.Parse()

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	// ── Engine ────────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(ctx, cfg.Engine, cfg.Diagnostic, logger.Named("engine"))
	logger.Info("engine started",
		zap.Int("workers", cfg.Engine.Workers),
		zap.Int("queue_depth", cfg.Engine.QueueDepth),
		zap.Int("max_depth", cfg.Diagnostic.MaxDepth),
	)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.ServiceConfig) {
		eng.SwapOptions(newCfg.Diagnostic)
		logger.Info("diagnostic options hot-reloaded",
			zap.Int("max_depth", newCfg.Diagnostic.MaxDepth),
			zap.Int("concurrency", newCfg.Diagnostic.Concurrency),
		)
	})
	loader.OnError(func(err error) {
		logger.Warn("hot-reload skipped: config invalid", zap.Error(err))
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		logger.Warn("config watcher unavailable (hot-reload disabled)", zap.Error(err))
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(eng, loader, logger.Named("http"))
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stop worker pool
	eng.Shutdown()
	logger.Info("goodbye")
}
