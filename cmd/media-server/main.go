package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gochat/internal/config"
	"gochat/internal/dbmongo"
	"gochat/internal/logger"
	"gochat/internal/media"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg := logger.Must(cfg.Logging)
	defer lg.Sync()

	mongoClient, err := dbmongo.NewMongoConnection(cfg, lg)
	if err != nil {
		lg.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Close(context.Background())

	storage := dbmongo.NewMediaStorage(mongoClient, cfg.Server.MediaBaseURL)
	srv := &http.Server{
		Addr:        ":" + cfg.Server.MediaServicePort,
		Handler:     media.NewHTTPServer(storage, lg),
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		lg.Info("media server running",
			zap.String("port", cfg.Server.MediaServicePort),
			zap.String("serving", "/media/{fileId}"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("media server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	lg.Info("media server stopped")
}
