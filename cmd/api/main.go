package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pollos-admin/internal/handler"
	"pollos-admin/internal/middleware"
	"pollos-admin/internal/repository"
	"pollos-admin/internal/service"
	"pollos-admin/pkg/config"
	"pollos-admin/pkg/database"
	"pollos-admin/pkg/jwt"
	"pollos-admin/pkg/logger"
	"pollos-admin/pkg/metrics"
	"pollos-admin/pkg/session"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLog := logger.New(logger.Options{
		ServiceName: "pollos-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := context.Background()

	// 2. Setup Database
	client, err := database.Connect(ctx, cfg.DB, cfg.App.IsDev(), appLog)
	if err != nil {
		appLog.Error(ctx, "database connection failed", err)
		os.Exit(1)
	}
	defer client.Close()

	if cfg.DB.AutoMigrate {
		if err := repository.AutoMigrate(client.DB()); err != nil {
			appLog.Error(ctx, "auto migrate failed", err)
			os.Exit(1)
		}
	}

	// 3. Sessions: redis when configured, process memory otherwise
	var store session.Store = session.NewMemoryStore()
	if cfg.Redis.Enabled() {
		redisStore, err := session.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			appLog.Error(ctx, "redis connection failed", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		appLog.Warn(ctx, "redis not configured, sessions are kept in memory")
	}
	registry, err := session.NewRegistry(store, cfg.Session.TTL)
	if err != nil {
		appLog.Error(ctx, "session registry", err)
		os.Exit(1)
	}
	signer, err := jwt.NewSigner(cfg.Session)
	if err != nil {
		appLog.Error(ctx, "session signer", err)
		os.Exit(1)
	}

	// 4. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(reg)

	// 5. Dependency Injection (Wiring Layers)
	db := client.DB()
	authService := service.NewAuthService(db, signer, registry, appLog, rec)
	catalogService := service.NewCatalogService(db, appLog, rec)
	pricingService := service.NewPricingService(db, appLog, rec)

	// 6. Setup Fiber
	app := handler.NewApp(handler.Deps{
		Auth:      authService,
		Catalog:   catalogService,
		Pricing:   pricingService,
		Cookies:   middleware.NewSessionCookies(cfg.Session),
		DB:        client,
		Log:       appLog,
		Metrics:   rec,
		Gatherer:  reg,
		AccessLog: cfg.App.IsDev(),
	})

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Panic(err)
		}
	}()
	appLog.Info(ctx, "listening on :"+cfg.App.Port)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info(ctx, "shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLog.Error(ctx, "server forced to shutdown", err)
	}
	appLog.Info(ctx, "server exited")
}
