package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payurl-service/internal/core/cache"
	"payurl-service/internal/core/config"
	"payurl-service/internal/core/logger"
	"payurl-service/internal/core/server"
	paymentadapter "payurl-service/internal/features/payments/adapters"
	paymenthandler "payurl-service/internal/features/payments/handler"
	"payurl-service/internal/features/payments/ports"
	paymentservice "payurl-service/internal/features/payments/service"

	"go.uber.org/zap"
)

// @title PayURL Service API
// @version 1.0
// @description Resolves 1688 cross-border pay URLs for batches of orders and looks up order pay status.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)
	if cfg.Proxy.HasProxy() {
		l.Info("Gateway calls go through proxy", zap.String("proxy", cfg.Proxy.HostPort()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	alibabaAdapter := paymentadapter.NewAlibabaAdapter(cfg.Alibaba, cfg.Proxy)

	// Status caching is optional; without REDIS_URL every lookup goes remote.
	var statusCache ports.StatusCache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL, "payurl:")
		if err != nil {
			l.Fatal("Failed to create Redis cache", zap.Error(err))
		}
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = redisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			l.Fatal("Redis Health Check Failed", zap.Error(err))
		}
		l.Info("Redis connection verified", zap.Duration("status_ttl", cfg.Redis.StatusTTL))

		statusCache = paymentadapter.NewRedisStatusCache(redisCache, cfg.Redis.StatusTTL)
	}

	paymentSvc := paymentservice.NewPaymentService(alibabaAdapter, statusCache)
	paymentHdl := paymenthandler.NewPaymentHandler(paymentSvc)

	srv := server.New(cfg)

	// Register Routes
	api := srv.App.Group("/api")
	api.Post("/pay-url", paymentHdl.GetPayURL)
	api.Get("/pay-status/:order_id", paymentHdl.GetPayStatus)

	if err := srv.Run(ctx); err != nil {
		l.Fatal("Server failed", zap.Error(err))
	}
	l.Info("Server stopped")
}
