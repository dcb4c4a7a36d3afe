package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"voicechat/internal/chat"
	"voicechat/internal/config"
	"voicechat/internal/db"
	"voicechat/internal/httpapi"
	"voicechat/internal/status"
	"voicechat/internal/store/rabbitmq"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	repo := chat.NewRepo(gdb)

	var queue chat.ReplyQueue
	if cfg.ReplyEnabled {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Warn().Err(err).Msg("reply queue unavailable, continuing without it")
		} else {
			defer pub.Close()
			queue = pub
		}
	}

	svc := chat.NewService(repo, queue)

	ctx := context.Background()
	var statusStore *status.Store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, audio status endpoints disabled")
	} else {
		statusStore = status.NewStore(rdb, cfg.StatusTTL)
	}

	r := httpapi.NewRouter(svc, statusStore, cfg.AllowedOrigins)

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("db_driver", cfg.DBDriver).
		Bool("reply_enabled", queue != nil).
		Msg("server starting")

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
