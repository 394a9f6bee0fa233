package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/analyzer"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/pageinsight"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/config"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/logger"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/metrics"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/middleware"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})

	engine := pageinsight.NewEngineFromConfig(cfg)

	svc := analyzer.NewService(engine, metrics.New(prometheus.DefaultRegisterer), log, analyzer.Options{
		DefaultMode:   model.FetchMode(cfg.FetchMode),
		ReportPath:    cfg.ReportPath,
		ScreenshotDir: cfg.ScreenshotDir,
	})

	mux := http.NewServeMux()
	analyzer.NewTransport(svc, log).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Stack(log, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", srv.Addr, "fetch_mode", cfg.FetchMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}
