package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/sqlservernerd/festguide/internal/clock"
	"github.com/sqlservernerd/festguide/internal/permission/domain"
	pkgdb "github.com/sqlservernerd/festguide/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

func NewService(db *gorm.DB, repo domain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		db:    db,
		repo:  repo,
		genID: genID,
		clock: clk,
		log:   log.Named("permission.service"),
	}
}

func (s *service) Invite(ctx context.Context, inviterID snowflake.ID, req domain.InviteRequest) (*domain.PermissionResponse, error) {
	if inviterID == 0 {
		return nil, domain.ErrInvalidSubject
	}
	if req.FestivalID == 0 {
		return nil, domain.ErrInvalidFestival
	}
	if req.InviteeID == 0 {
		return nil, domain.ErrInvalidSubject
	}
	if !req.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if req.Role == domain.RoleOwner {
		// Ownership moves only through TransferOwnership.
		return nil, domain.ErrOwnerNotInvitable
	}
	scope := req.Scope
	if !scope.Valid() {
		return nil, domain.ErrInvalidScope
	}
	if req.Role == domain.RoleAdministrator && scope != domain.ScopeAll {
		// Administrators cannot hold a partial scope. The requested value is
		// not persisted; see the service log for the original request.
		s.log.Debug("administrator invite scope overridden",
			zap.String("festival_id", req.FestivalID.String()),
			zap.String("invitee_id", req.InviteeID.String()),
			zap.String("requested_scope", string(scope)))
		scope = domain.ScopeAll
	}

	inviter, err := s.repo.Active(ctx, req.FestivalID, inviterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if inviter.Role < domain.RoleAdministrator {
		return nil, domain.ErrForbidden
	}

	if _, err := s.repo.Active(ctx, req.FestivalID, req.InviteeID); err == nil {
		return nil, domain.ErrAlreadyActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.repo.Pending(ctx, req.FestivalID, req.InviteeID); err == nil {
		return nil, domain.ErrInvitePending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	p := domain.Permission{
		ID:         s.genID.Generate(),
		FestivalID: req.FestivalID,
		SubjectID:  req.InviteeID,
		Role:       req.Role,
		Scope:      scope,
		InvitedBy:  &inviterID,
		IsPending:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if pkgdb.IsConflictErr(err) {
			return nil, domain.ErrAlreadyActive
		}
		return nil, err
	}

	s.log.Info("invitation created",
		zap.String("festival_id", req.FestivalID.String()),
		zap.String("invitee_id", req.InviteeID.String()),
		zap.String("role", req.Role.String()))

	resp := domain.NewResponse(p)
	return &resp, nil
}

func (s *service) Accept(ctx context.Context, subjectID, permissionID snowflake.ID) error {
	p, err := s.repo.GetByID(ctx, permissionID)
	if err != nil {
		return err
	}
	if p.SubjectID != subjectID {
		return domain.ErrSubjectMismatch
	}
	if !p.IsPending || p.IsRevoked {
		return domain.ErrNotPending
	}

	now := s.clock.Now()
	p.IsPending = false
	p.AcceptedAt = &now
	p.UpdatedAt = now
	if err := s.repo.Update(ctx, *p); err != nil {
		if pkgdb.IsConflictErr(err) {
			return domain.ErrAlreadyActive
		}
		return err
	}
	return nil
}

func (s *service) Decline(ctx context.Context, subjectID, permissionID snowflake.ID) error {
	p, err := s.repo.GetByID(ctx, permissionID)
	if err != nil {
		return err
	}
	if p.SubjectID != subjectID {
		return domain.ErrSubjectMismatch
	}
	if !p.IsPending || p.IsRevoked {
		return domain.ErrNotPending
	}

	now := s.clock.Now()
	p.IsRevoked = true
	p.RevokedAt = &now
	p.UpdatedAt = now
	return s.repo.Update(ctx, *p)
}

func (s *service) Revoke(ctx context.Context, requesterID, permissionID snowflake.ID) error {
	p, err := s.repo.GetByID(ctx, permissionID)
	if err != nil {
		return err
	}
	if p.Role == domain.RoleOwner {
		// Ownership leaves only through TransferOwnership.
		return domain.ErrOwnerRevocation
	}

	requester, err := s.repo.Active(ctx, p.FestivalID, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	if requester.Role < domain.RoleAdministrator {
		return domain.ErrForbidden
	}
	if p.IsRevoked {
		return nil
	}

	now := s.clock.Now()
	p.IsRevoked = true
	p.RevokedAt = &now
	p.UpdatedAt = now
	if err := s.repo.Update(ctx, *p); err != nil {
		return err
	}

	s.log.Info("permission revoked",
		zap.String("permission_id", permissionID.String()),
		zap.String("festival_id", p.FestivalID.String()),
		zap.String("requester_id", requesterID.String()))
	return nil
}

// TransferOwnership demotes the current owner to Administrator and promotes
// the new owner in one transaction. A partially applied transfer would leave
// the festival with zero or two owners, so both writes commit together.
func (s *service) TransferOwnership(ctx context.Context, festivalID, currentOwnerID, newOwnerID snowflake.ID) error {
	if festivalID == 0 {
		return domain.ErrInvalidFestival
	}
	if currentOwnerID == 0 || newOwnerID == 0 || currentOwnerID == newOwnerID {
		return domain.ErrInvalidSubject
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		owner, err := repo.Owner(ctx, festivalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrForbidden
			}
			return err
		}
		if owner.SubjectID != currentOwnerID {
			return domain.ErrForbidden
		}

		now := s.clock.Now()
		owner.Role = domain.RoleAdministrator
		owner.Scope = domain.ScopeAll
		owner.UpdatedAt = now
		if err := repo.Update(ctx, *owner); err != nil {
			return err
		}

		next, err := repo.Active(ctx, festivalID, newOwnerID)
		switch {
		case err == nil:
			next.Role = domain.RoleOwner
			next.Scope = domain.ScopeAll
			next.UpdatedAt = now
			return repo.Update(ctx, *next)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return repo.Create(ctx, domain.Permission{
				ID:         s.genID.Generate(),
				FestivalID: festivalID,
				SubjectID:  newOwnerID,
				Role:       domain.RoleOwner,
				Scope:      domain.ScopeAll,
				AcceptedAt: &now,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		default:
			return err
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("ownership transferred",
		zap.String("festival_id", festivalID.String()),
		zap.String("from", currentOwnerID.String()),
		zap.String("to", newOwnerID.String()))
	return nil
}

func (s *service) ListCollaborators(ctx context.Context, requesterID, festivalID snowflake.ID) ([]domain.PermissionResponse, error) {
	if _, err := s.repo.Active(ctx, festivalID, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}

	perms, err := s.repo.ListByFestival(ctx, festivalID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, domain.NewResponse(p))
	}
	return out, nil
}

func (s *service) GrantOwner(ctx context.Context, tx *gorm.DB, festivalID, ownerID snowflake.ID) error {
	if festivalID == 0 {
		return domain.ErrInvalidFestival
	}
	if ownerID == 0 {
		return domain.ErrInvalidSubject
	}

	now := s.clock.Now()
	return s.repo.WithTx(tx).Create(ctx, domain.Permission{
		ID:         s.genID.Generate(),
		FestivalID: festivalID,
		SubjectID:  ownerID,
		Role:       domain.RoleOwner,
		Scope:      domain.ScopeAll,
		AcceptedAt: &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}
