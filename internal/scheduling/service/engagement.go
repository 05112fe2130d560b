package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	permissiondomain "github.com/sqlservernerd/festguide/internal/permission/domain"
	"github.com/sqlservernerd/festguide/internal/scheduling/domain"
	pkgdb "github.com/sqlservernerd/festguide/pkg/db"
	"go.uber.org/zap"
)

func (s *service) CreateEngagement(ctx context.Context, actorID snowflake.ID, req domain.CreateEngagementRequest) (*domain.Engagement, error) {
	if req.TimeSlotID == 0 {
		return nil, domain.ErrInvalidSlot
	}
	if req.ArtistID == 0 {
		return nil, domain.ErrInvalidArtist
	}

	if _, err := s.repo.GetSlot(ctx, req.TimeSlotID); err != nil {
		return nil, err
	}
	festivalID, err := s.resolver.FestivalForTimeSlot(ctx, req.TimeSlotID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireMutation(ctx, actorID, festivalID, permissiondomain.ScopeSchedule); err != nil {
		return nil, err
	}
	if err := s.checkArtistFestival(ctx, req.ArtistID, festivalID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	e := domain.Engagement{
		ID:         s.genID.Generate(),
		TimeSlotID: req.TimeSlotID,
		ArtistID:   req.ArtistID,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.withLock(ctx, engagementLockKey(req.TimeSlotID), func() error {
		exists, err := s.repo.ActiveEngagementExists(ctx, req.TimeSlotID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrSlotEngaged
		}
		if err := s.repo.CreateEngagement(ctx, e); err != nil {
			if pkgdb.IsConflictErr(err) {
				return domain.ErrSlotEngaged
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotEngaged) {
			s.metrics.SlotConflicts.Inc()
		}
		return nil, err
	}

	s.log.Info("engagement created",
		zap.String("engagement_id", e.ID.String()),
		zap.String("slot_id", req.TimeSlotID.String()),
		zap.String("artist_id", req.ArtistID.String()))
	return &e, nil
}

func (s *service) UpdateEngagement(ctx context.Context, actorID, engagementID snowflake.ID, req domain.UpdateEngagementRequest) (*domain.Engagement, error) {
	e, err := s.repo.GetEngagement(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	festivalID, err := s.resolver.FestivalForEngagement(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireMutation(ctx, actorID, festivalID, permissiondomain.ScopeSchedule); err != nil {
		return nil, err
	}

	// A zero artist id keeps the current artist, so notes can change on
	// their own. Replacing the artist on an existing engagement is allowed;
	// the one-per-slot rule only guards creation.
	if req.ArtistID != 0 {
		if err := s.checkArtistFestival(ctx, req.ArtistID, festivalID); err != nil {
			return nil, err
		}
		e.ArtistID = req.ArtistID
	}
	e.Notes = req.Notes
	e.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateEngagement(ctx, *e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) DeleteEngagement(ctx context.Context, actorID, engagementID snowflake.ID) error {
	if _, err := s.repo.GetEngagement(ctx, engagementID); err != nil {
		return err
	}
	festivalID, err := s.resolver.FestivalForEngagement(ctx, engagementID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireMutation(ctx, actorID, festivalID, permissiondomain.ScopeSchedule); err != nil {
		return err
	}
	return s.repo.SoftDeleteEngagement(ctx, engagementID, s.clock.Now())
}

// checkArtistFestival rejects engaging an artist from another festival.
func (s *service) checkArtistFestival(ctx context.Context, artistID, festivalID snowflake.ID) error {
	artistFestival, err := s.resolver.FestivalForArtist(ctx, artistID)
	if err != nil {
		return err
	}
	if artistFestival != festivalID {
		return domain.ErrArtistWrongFestival
	}
	return nil
}
