package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/visionaryvybes/visiomancer-core/internal/attribution"
	"github.com/visionaryvybes/visiomancer-core/internal/checkout"
	"github.com/visionaryvybes/visiomancer-core/internal/config"
	"github.com/visionaryvybes/visiomancer-core/internal/handler"
	"github.com/visionaryvybes/visiomancer-core/internal/logger"
	"github.com/visionaryvybes/visiomancer-core/internal/order"
	"github.com/visionaryvybes/visiomancer-core/internal/relay"
	"github.com/visionaryvybes/visiomancer-core/internal/session"
	"github.com/visionaryvybes/visiomancer-core/internal/storage"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting storefront core",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := storage.NewRedisStore(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to create Redis store", zap.Error(err))
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Error("Failed to close Redis store", zap.Error(err))
		}
	}()

	relayClient := relay.NewClient(cfg.Relay, log)
	dispatcher := attribution.NewDispatcher(relayClient, attribution.DispatcherConfig{
		BufferSize: cfg.Relay.BufferSize,
	}, log)

	sessions := session.NewManager(kv, dispatcher, cfg.Checkout, cfg.Session, log)

	orderClient := order.NewClient(cfg.Orders, log)
	router := checkout.NewRouter(orderClient, cfg.Checkout, log)

	h := handler.NewHandler(sessions, router, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler: h,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dispatcher.Start(ctx)
		return nil
	})

	g.Go(func() error {
		sessions.Run(ctx)
		return nil
	})

	g.Go(func() error {
		log.Info("API server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Service exited with error", zap.Error(err))
	}

	log.Info("Service stopped")
}
