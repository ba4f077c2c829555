// Package main wires together the page analyzer service binary.
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

	"github.com/user/page-analyzer/internal/analyzer"
	"github.com/user/page-analyzer/internal/api"
	"github.com/user/page-analyzer/internal/clock/system"
	"github.com/user/page-analyzer/internal/config"
	collyfetcher "github.com/user/page-analyzer/internal/fetcher/colly"
	"github.com/user/page-analyzer/internal/logging"
	"github.com/user/page-analyzer/internal/metrics"
	"github.com/user/page-analyzer/internal/parser"
	"github.com/user/page-analyzer/internal/storage/memory"
	"github.com/user/page-analyzer/internal/storage/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	var (
		pages  analyzer.PageRepository
		checks analyzer.CheckRepository
	)
	switch cfg.DB.Provider {
	case "postgres":
		pool, err := postgres.NewPool(ctx, postgres.Config{
			DSN:      cfg.DB.DSN,
			MaxConns: cfg.DB.MaxConns,
			MinConns: cfg.DB.MinConns,
		})
		if err != nil {
			logger.Fatal("postgres init failed", zap.Error(err))
		}
		defer pool.Close()
		pageStore, err := postgres.NewPageStore(pool)
		if err != nil {
			logger.Fatal("page store init failed", zap.Error(err))
		}
		checkStore, err := postgres.NewCheckStore(pool)
		if err != nil {
			logger.Fatal("check store init failed", zap.Error(err))
		}
		pages, checks = pageStore, checkStore
	case "memory":
		store := memory.NewStore(system.New())
		pages, checks = store, store
	default:
		logger.Fatal("unknown db provider", zap.String("provider", cfg.DB.Provider))
	}

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	service := analyzer.NewService(pages, checks, fetcher, parser.New(), logger.Named("analyzer"))
	apiServer := api.NewServer(service, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
