package lock

import (
	"github.com/redis/go-redis/v9"
	"github.com/sqlservernerd/festguide/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewClient(cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Warn("redis not configured; scheduling writes rely on database constraints only")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

var Module = fx.Module("lock",
	fx.Provide(NewClient),
	fx.Provide(NewLocker),
)
