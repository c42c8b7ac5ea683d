package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Black1604/cloud1604-solution/internal/config"
	equeue "github.com/Black1604/cloud1604-solution/internal/email/queue"
	esvc "github.com/Black1604/cloud1604-solution/internal/email/service"
	"github.com/Black1604/cloud1604-solution/internal/logger"
	"github.com/Black1604/cloud1604-solution/internal/platform/ratelimit"
	srepo "github.com/Black1604/cloud1604-solution/internal/settings/repository"
	ssvc "github.com/Black1604/cloud1604-solution/internal/settings/service"
	"github.com/Black1604/cloud1604-solution/internal/version"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.AppEnv, "worker")
	log.Info().Str("version", version.String()).Msg("starting email worker")

	pgCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid DATABASE_URL")
	}
	pgPool, err := pgxpool.NewWithConfig(context.Background(), pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create pg pool")
	}
	defer pgPool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	settings := ssvc.New(srepo.New(pgPool))
	sender := esvc.NewRouter(settings, cfg)
	dispatcher := esvc.NewDispatcher(sender, cfg, log)
	limiter := ratelimit.NewRedisStore(redisClient)

	worker := equeue.NewWorker(redisClient, dispatcher, limiter, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("worker stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("worker stopped")
}
