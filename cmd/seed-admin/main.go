// Command seed-admin creates the initial admin account from ADMIN_USERNAME and
// ADMIN_PASSWORD. Running it again is a no-op.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecommerce-showcase/storefront/internal/core/service"
	mongodb "github.com/ecommerce-showcase/storefront/internal/infrastructure/db/mongo"
	"github.com/ecommerce-showcase/storefront/internal/infrastructure/security"
	"github.com/ecommerce-showcase/storefront/internal/pkg/config"
	"github.com/ecommerce-showcase/storefront/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront-seed-admin",
	})

	if cfg.Admin.Password == "" {
		log.Error().Msg("ADMIN_PASSWORD is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	accounts := service.NewAccountService(
		mongodb.NewUserRepository(db),
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		security.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		nil,
		logger.Component("accounts"),
	)

	created, err := accounts.SeedAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}
	if !created {
		log.Info().Str("username", cfg.Admin.Username).Msg("admin already exists")
		return
	}
	log.Info().Str("username", cfg.Admin.Username).Msg("admin created")
}
