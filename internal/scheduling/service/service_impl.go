package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sqlservernerd/festguide/internal/authorization"
	"github.com/sqlservernerd/festguide/internal/clock"
	festivaldomain "github.com/sqlservernerd/festguide/internal/festival/domain"
	"github.com/sqlservernerd/festguide/internal/lock"
	"github.com/sqlservernerd/festguide/internal/observability/metrics"
	permissiondomain "github.com/sqlservernerd/festguide/internal/permission/domain"
	"github.com/sqlservernerd/festguide/internal/resolver"
	"github.com/sqlservernerd/festguide/internal/scheduling/domain"
	pkgdb "github.com/sqlservernerd/festguide/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const lockTTL = 5 * time.Second

type service struct {
	db       *gorm.DB
	repo     domain.Repository
	fests    festivaldomain.Repository
	authz    authorization.Service
	resolver resolver.Resolver
	locker   *lock.Locker
	genID    *snowflake.Node
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
	locker *lock.Locker,
	genID *snowflake.Node,
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
		locker:   locker,
		genID:    genID,
		clock:    clk,
		metrics:  dm,
		log:      log.Named("scheduling.service"),
	}
}

// withLock serializes fn per scheduling key when redis is configured.
// Contention that outlasts the lock's retries surfaces as a conflict rather
// than blocking the request. Without redis, fn runs unguarded and the
// database constraint is the only arbiter.
func (s *service) withLock(ctx context.Context, key string, fn func() error) error {
	if s.locker == nil {
		return fn()
	}
	token, err := s.locker.Acquire(ctx, key, lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrContended) {
			return domain.ErrLockContended
		}
		return err
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.locker.Release(releaseCtx, key, token)
	}()
	return fn()
}

func slotLockKey(stageID, editionID snowflake.ID) string {
	return fmt.Sprintf("sched:slot:%s:%s", stageID, editionID)
}

func engagementLockKey(timeSlotID snowflake.ID) string {
	return fmt.Sprintf("sched:engagement:%s", timeSlotID)
}

func (s *service) CreateTimeSlot(ctx context.Context, actorID snowflake.ID, req domain.CreateTimeSlotRequest) (*domain.TimeSlot, error) {
	if req.StageID == 0 {
		return nil, domain.ErrInvalidStage
	}
	if req.EditionID == 0 {
		return nil, domain.ErrInvalidEdition
	}
	if !req.StartUTC.Before(req.EndUTC) {
		return nil, domain.ErrInvalidInterval
	}

	festivalID, err := s.resolver.FestivalForStage(ctx, req.StageID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireMutation(ctx, actorID, festivalID, permissiondomain.ScopeSchedule); err != nil {
		return nil, err
	}

	editionFestival, err := s.resolver.FestivalForEdition(ctx, req.EditionID)
	if err != nil {
		return nil, err
	}
	if editionFestival != festivalID {
		return nil, domain.ErrEditionMismatch
	}

	now := s.clock.Now()
	slot := domain.TimeSlot{
		ID:        s.genID.Generate(),
		StageID:   req.StageID,
		EditionID: req.EditionID,
		Title:     req.Title,
		StartUTC:  req.StartUTC.UTC(),
		EndUTC:    req.EndUTC.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.withLock(ctx, slotLockKey(req.StageID, req.EditionID), func() error {
		overlap, err := s.repo.HasOverlap(ctx, req.StageID, req.EditionID, slot.StartUTC, slot.EndUTC, 0)
		if err != nil {
			return err
		}
		if overlap {
			return domain.ErrSlotOverlap
		}
		if err := s.repo.CreateSlot(ctx, slot); err != nil {
			if pkgdb.IsConflictErr(err) {
				return domain.ErrSlotOverlap
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotOverlap) {
			s.metrics.SlotConflicts.Inc()
		}
		return nil, err
	}

	s.log.Info("time slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("stage_id", req.StageID.String()),
		zap.String("edition_id", req.EditionID.String()),
		zap.Time("start_utc", slot.StartUTC),
		zap.Time("end_utc", slot.EndUTC))
	return &slot, nil
}

func (s *service) UpdateTimeSlot(ctx context.Context, actorID, slotID snowflake.ID, req domain.UpdateTimeSlotRequest) (*domain.TimeSlot, error) {
	if !req.StartUTC.Before(req.EndUTC) {
		return nil, domain.ErrInvalidInterval
	}

	slot, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	festivalID, err := s.resolver.FestivalForTimeSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireMutation(ctx, actorID, festivalID, permissiondomain.ScopeSchedule); err != nil {
		return nil, err
	}

	slot.Title = req.Title
	slot.StartUTC = req.StartUTC.UTC()
	slot.EndUTC = req.EndUTC.UTC()
	slot.UpdatedAt = s.clock.Now()

	err = s.withLock(ctx, slotLockKey(slot.StageID, slot.EditionID), func() error {
		// A slot never conflicts with itself.
		overlap, err := s.repo.HasOverlap(ctx, slot.StageID, slot.EditionID, slot.StartUTC, slot.EndUTC, slot.ID)
		if err != nil {
			return err
		}
		if overlap {
			return domain.ErrSlotOverlap
		}
		if err := s.repo.UpdateSlot(ctx, *slot); err != nil {
			if pkgdb.IsConflictErr(err) {
				return domain.ErrSlotOverlap
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotOverlap) {
			s.metrics.SlotConflicts.Inc()
		}
		return nil, err
	}
	return slot, nil
}

func (s *service) DeleteTimeSlot(ctx context.Context, actorID, slotID snowflake.ID) error {
	if _, err := s.repo.GetSlot(ctx, slotID); err != nil {
		return err
	}
	festivalID, err := s.resolver.FestivalForTimeSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireMutation(ctx, actorID, festivalID, permissiondomain.ScopeSchedule); err != nil {
		return err
	}
	return s.repo.SoftDeleteSlot(ctx, slotID, s.clock.Now())
}

func (s *service) EditionSchedule(ctx context.Context, editionID snowflake.ID) ([]domain.ScheduleLine, error) {
	if editionID == 0 {
		return nil, domain.ErrInvalidEdition
	}
	if _, err := s.fests.GetEdition(ctx, editionID); err != nil {
		return nil, err
	}
	return s.repo.ListScheduleLines(ctx, editionID)
}
