// Package authorization answers "may this subject act on this festival".
// Decisions are pure reads over the subject's active permission and
// fail closed: no active permission means no.
package authorization

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	permissiondomain "github.com/sqlservernerd/festguide/internal/permission/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrForbidden = errors.New("forbidden")

type Service interface {
	HasScope(ctx context.Context, subjectID, festivalID snowflake.ID, required permissiondomain.Scope) (bool, error)
	HasRoleAtLeast(ctx context.Context, subjectID, festivalID snowflake.ID, minimum permissiondomain.Role) (bool, error)
	// RequireMutation is the write gate: the subject needs the scope and at
	// least Manager standing. A Viewer never mutates, whatever its scope.
	RequireMutation(ctx context.Context, subjectID, festivalID snowflake.ID, required permissiondomain.Scope) error
}

type service struct {
	repo permissiondomain.Repository
	log  *zap.Logger
}

func NewService(repo permissiondomain.Repository, log *zap.Logger) Service {
	return &service{
		repo: repo,
		log:  log.Named("authorization.service"),
	}
}

func (s *service) HasScope(ctx context.Context, subjectID, festivalID snowflake.ID, required permissiondomain.Scope) (bool, error) {
	p, err := s.repo.Active(ctx, festivalID, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.Grants(required), nil
}

func (s *service) HasRoleAtLeast(ctx context.Context, subjectID, festivalID snowflake.ID, minimum permissiondomain.Role) (bool, error) {
	p, err := s.repo.Active(ctx, festivalID, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.Role >= minimum, nil
}

func (s *service) RequireMutation(ctx context.Context, subjectID, festivalID snowflake.ID, required permissiondomain.Scope) error {
	p, err := s.repo.Active(ctx, festivalID, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return err
	}
	if p.Role < permissiondomain.RoleManager {
		s.log.Debug("mutation denied for viewer",
			zap.String("subject_id", subjectID.String()),
			zap.String("festival_id", festivalID.String()))
		return ErrForbidden
	}
	if !p.Grants(required) {
		return ErrForbidden
	}
	return nil
}

var Module = fx.Module("authorization",
	fx.Provide(NewService),
)
