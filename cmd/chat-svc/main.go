package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"gochat/internal/common"
	"gochat/internal/di"
)

const serviceName = "gochat.ChatService"

func main() {
	app, cleanup, err := di.InitializeChatService()
	if err != nil {
		log.Fatalf("Failed to initialize chat service: %v", err)
	}
	defer cleanup()

	logger := app.Log
	cfg := app.Config

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if app.Relay != nil {
		go func() {
			if err := app.Relay.Run(ctx, app.Dispatcher.DeliverLocal); err != nil {
				logger.Error("relay stopped", zap.Error(err))
			}
		}()
	}

	if app.Limiter != nil {
		go app.Limiter.Run(ctx)
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(app),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(common.UnaryLoggingInterceptor(logger)),
		grpc.StreamInterceptor(common.StreamLoggingInterceptor(logger)),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.Server.HealthPort)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("port", cfg.Server.HealthPort), zap.Error(err))
	}

	go func() {
		logger.Info("health endpoint running", zap.String("port", cfg.Server.HealthPort))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve failed", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("chat service running",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http serve failed", zap.Error(err))
		}
	}()
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	<-ctx.Done()
	logger.Info("shutting down chat service")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	logger.Info("chat service stopped")
}

func newRouter(app *di.ChatApp) *mux.Router {
	r := mux.NewRouter()
	r.Use(common.LoggingMiddleware(app.Log), common.CORSMiddleware)

	r.Handle("/metrics", app.Metrics.Handler()).Methods(http.MethodGet)
	if app.Media != nil {
		r.PathPrefix("/media/").Handler(app.Media)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(common.AuthMiddleware(app.Tokens))
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	api.Handle("/ws", app.Delivery).Methods(http.MethodGet)
	app.Users.RegisterRoutes(api)
	app.Chat.RegisterRoutes(api, app.Limiter)

	return r
}
