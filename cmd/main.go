package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sm8ta/webike_cache_microservice/internal/adapter/logger"
	"github.com/sm8ta/webike_cache_microservice/internal/app"
	"github.com/sm8ta/webike_cache_microservice/internal/config"
)

func main() {
	// Loading environment
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg, loggerAdapter)
	if err != nil {
		log.Fatalf("Error initializing application: %v", err)
	}

	errs := application.Run()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	loggerAdapter.Info("Application is running", nil)

	select {
	case sig := <-stop:
		loggerAdapter.Info("Shutting down", map[string]interface{}{
			"signal": sig.String(),
		})
	case err := <-errs:
		loggerAdapter.Error("Server failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	application.Stop(shutdownCtx)

	loggerAdapter.Info("Application stopped", nil)
}
