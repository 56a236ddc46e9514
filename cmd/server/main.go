package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"healthportal/docs"
	"healthportal/internal/app"
	"healthportal/internal/cache"
	"healthportal/internal/config"
	"healthportal/internal/db"
	"healthportal/internal/repository"
	"healthportal/internal/repository/memory"
	"healthportal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Health Portal API
// @version 1.0
// @description Patient portal API with appointments, medical records, health metrics and role based access.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("storage init")
	}

	var cacheClient interface {
		cache.Cache
		Close() error
	}
	if cfg.RedisAddr != "" {
		cacheClient = cache.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	} else {
		cacheClient = cache.NewMemory()
	}
	defer cacheClient.Close()

	server := app.New(cfg, store, cacheClient)

	if cfg.SeedFixtures {
		if err := server.Seeder.All(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("load fixtures")
		}
	}

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().
			Str("addr", addr).
			Str("driver", cfg.StorageDriver).
			Bool("dev_fixtures", cfg.DevFixtures).
			Msg("server starting")
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

func openStore(cfg *config.Config) (*repository.Store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return memory.NewStore(), nil
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return nil, err
	}
	return repository.NewGormStore(gormDB), nil
}
