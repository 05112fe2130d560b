package service

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"github.com/sqlservernerd/festguide/internal/config"
	"github.com/sqlservernerd/festguide/internal/notification/domain"
	"go.uber.org/zap"
)

// redisNotifier publishes schedule changes onto a redis channel where
// downstream push workers pick them up. With redis unconfigured it degrades
// to a no-op so a publish still succeeds on a bare deployment.
type redisNotifier struct {
	rdb    *redis.Client
	holder *config.NotifyConfigHolder
	log    *zap.Logger
}

func NewRedisNotifier(rdb *redis.Client, holder *config.NotifyConfigHolder, log *zap.Logger) domain.Notifier {
	return &redisNotifier{
		rdb:    rdb,
		holder: holder,
		log:    log.Named("notification.publisher"),
	}
}

func (n *redisNotifier) NotifyScheduleChanged(ctx context.Context, editionID snowflake.ID, change domain.ChangeDescriptor) error {
	cfg := n.holder.Get()
	if !cfg.PushEnabled {
		n.log.Debug("push disabled, dropping schedule change", zap.String("edition_id", editionID.String()))
		return nil
	}
	if n.rdb == nil {
		n.log.Debug("redis not configured, dropping schedule change", zap.String("edition_id", editionID.String()))
		return nil
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, cfg.Channel, payload).Err(); err != nil {
		return err
	}

	n.log.Debug("schedule change published",
		zap.String("channel", cfg.Channel),
		zap.String("edition_id", editionID.String()),
		zap.Int64("version", change.Version),
	)
	return nil
}
