package app

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/destrangis/odre/internal/config"
	"github.com/destrangis/odre/internal/db"
	"github.com/destrangis/odre/internal/redis"
	"github.com/destrangis/odre/internal/session"
)

type infra struct {
	db      *db.DB
	store   session.Store
	cleanup func() error
}

func setupInfra(ctx context.Context, cfg config.Config) (*infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.RunMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	log.Info().Msg("database ready")

	// redis when configured, otherwise an in-process bigcache store
	var store session.Store
	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		store = session.NewRedisStore(redisClient.Client)
		log.Info().Msg("redis session store ready")
	} else {
		store, err = session.NewCacheStore(cfg.SessionLifetime)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("in-process session store ready")
	}

	return &infra{
		db:      &db.DB{DB: sqlDB},
		store:   store,
		cleanup: sqlDB.Close,
	}, nil
}
