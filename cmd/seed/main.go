package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"healthportal/internal/auth"
	"healthportal/internal/config"
	"healthportal/internal/db"
	"healthportal/internal/repository"
	"healthportal/internal/seed"
	"healthportal/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.StorageDriver == config.DriverMemory {
		log.Fatal().Msg("seeding needs STORAGE_DRIVER=mysql or postgres; use SEED_FIXTURES with the memory store")
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	log.Info().Str("driver", cfg.StorageDriver).Msg("connected to database")

	if err := db.AutoMigrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store := repository.NewGormStore(gormDB)
	seeder := seed.New(store.Users, auth.NewBcryptHasher(cfg.BcryptCost, cfg.HashWorkers))

	_, created, err := seeder.TestUser(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed test user")
	}
	doctors, err := seeder.Doctors(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed test doctors")
	}

	log.Info().
		Bool("test_user_created", created).
		Int("doctors_created", len(doctors)).
		Msg("seed completed")
}
