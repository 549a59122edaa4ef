package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/ecommerce-showcase/storefront/docs"
	"github.com/ecommerce-showcase/storefront/internal/api"
	"github.com/ecommerce-showcase/storefront/internal/api/handler"
	"github.com/ecommerce-showcase/storefront/internal/api/metrics"
	"github.com/ecommerce-showcase/storefront/internal/core/service"
	mongodb "github.com/ecommerce-showcase/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/ecommerce-showcase/storefront/internal/infrastructure/db/redis"
	"github.com/ecommerce-showcase/storefront/internal/infrastructure/security"
	"github.com/ecommerce-showcase/storefront/internal/pkg/config"
	"github.com/ecommerce-showcase/storefront/pkg/logger"
)

// @title                       Storefront API
// @version                     1.0
// @description                 Accounts, roles and product catalog for the storefront showcase.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront-api",
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	ctx := context.Background()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	tokens := security.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	accounts := service.NewAccountService(
		mongodb.NewUserRepository(db),
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window),
		logger.Component("accounts"),
	)
	products := service.NewProductService(mongodb.NewProductRepository(db), logger.Component("catalog"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Register(reg); err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	e := api.NewRouter(api.RouterConfig{
		Logger:      logger.Component("http"),
		CORSOrigins: cfg.CORSOrigins,
		Accounts:    accounts,
		Products:    products,
		Tokens:      tokens,
		Checks: []handler.DependencyCheck{
			{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
		Registry: reg,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
