// The server binary exposes the WI to Camtrap-DP converter over HTTP.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redotus/camtrapflow/internal/api"
	"github.com/redotus/camtrapflow/internal/camtrapdp"
	"github.com/redotus/camtrapflow/internal/config"
	"github.com/redotus/camtrapflow/internal/pkg/logger"
	"github.com/redotus/camtrapflow/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Error("load config", "error", err.Error())
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.Redact())

	var publisher camtrapdp.Publisher
	if cfg.Publish.Enabled {
		p, err := storage.NewS3Publisher(context.Background(), cfg.Publish)
		if err != nil {
			logger.Error("init publisher", "error", err.Error())
			os.Exit(1)
		}
		publisher = p
		logger.Info("publishing enabled", "bucket", cfg.Publish.S3Bucket)
	}

	handlers := api.NewHandlers(cfg, publisher)
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.SetupRoutes(handlers),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err.Error())
	}
	logger.Info("server stopped")
}
