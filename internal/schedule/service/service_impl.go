package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sqlservernerd/festguide/internal/authorization"
	"github.com/sqlservernerd/festguide/internal/clock"
	festivaldomain "github.com/sqlservernerd/festguide/internal/festival/domain"
	notificationdomain "github.com/sqlservernerd/festguide/internal/notification/domain"
	"github.com/sqlservernerd/festguide/internal/observability/metrics"
	permissiondomain "github.com/sqlservernerd/festguide/internal/permission/domain"
	"github.com/sqlservernerd/festguide/internal/resolver"
	"github.com/sqlservernerd/festguide/internal/schedule/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const notifyTimeout = 10 * time.Second

type service struct {
	db       *gorm.DB
	repo     domain.Repository
	fests    festivaldomain.Repository
	authz    authorization.Service
	resolver resolver.Resolver
	notifier notificationdomain.Notifier
	clock    clock.Clock
	metrics  *metrics.Domain
	log      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo domain.Repository,
	fests festivaldomain.Repository,
	authz authorization.Service,
	res resolver.Resolver,
	notifier notificationdomain.Notifier,
	clk clock.Clock,
	dm *metrics.Domain,
	log *zap.Logger,
) domain.Service {
	return &service{
		db:       db,
		repo:     repo,
		fests:    fests,
		authz:    authz,
		resolver: res,
		notifier: notifier,
		clock:    clk,
		metrics:  dm,
		log:      log.Named("schedule.service"),
	}
}

func (s *service) Publish(ctx context.Context, actorID, editionID snowflake.ID) (*domain.PublishResponse, error) {
	if editionID == 0 {
		return nil, domain.ErrInvalidEdition
	}

	festivalID, err := s.resolver.FestivalForEdition(ctx, editionID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.RequireMutation(ctx, actorID, festivalID, permissiondomain.ScopeSchedule); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var published domain.Schedule

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		fests := s.fests.WithTx(tx)

		sched, err := repo.Get(ctx, editionID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sched = &domain.Schedule{EditionID: editionID, Version: 1}
			sched.PublishedAt = &now
			sched.PublishedBy = &actorID
			if err := repo.Create(ctx, *sched); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			sched.Version++
			sched.PublishedAt = &now
			sched.PublishedBy = &actorID
			if err := repo.Update(ctx, *sched); err != nil {
				return err
			}
		}

		if err := fests.UpdateEditionStatus(ctx, editionID, festivaldomain.EditionPublished, now); err != nil {
			return err
		}

		published = *sched
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SchedulePublishes.Inc()
	s.log.Info("schedule published",
		zap.String("edition_id", editionID.String()),
		zap.Int64("version", published.Version),
		zap.String("published_by", actorID.String()),
	)

	// The notification rides outside the transaction: attendees may learn
	// about the change late, but the publish itself never rolls back on a
	// fan-out failure.
	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		change := notificationdomain.ChangeDescriptor{
			EditionID:   editionID.String(),
			Version:     published.Version,
			PublishedAt: now,
		}
		if err := s.notifier.NotifyScheduleChanged(nctx, editionID, change); err != nil {
			s.metrics.NotifyFailures.Inc()
			s.log.Warn("schedule change notification failed",
				zap.String("edition_id", editionID.String()),
				zap.Error(err),
			)
		}
	}()

	return &domain.PublishResponse{
		EditionID:   editionID.String(),
		Version:     published.Version,
		PublishedAt: now,
		PublishedBy: actorID.String(),
	}, nil
}

func (s *service) Get(ctx context.Context, editionID snowflake.ID) (*domain.Schedule, error) {
	if editionID == 0 {
		return nil, domain.ErrInvalidEdition
	}
	return s.repo.Get(ctx, editionID)
}
