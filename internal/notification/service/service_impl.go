package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sqlservernerd/festguide/internal/clock"
	"github.com/sqlservernerd/festguide/internal/notification/domain"
	pkgdb "github.com/sqlservernerd/festguide/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

func NewService(repo domain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		repo:  repo,
		genID: genID,
		clock: clk,
		log:   log.Named("notification.service"),
	}
}

func (s *service) RegisterToken(ctx context.Context, req domain.RegisterTokenRequest) (*domain.DeviceToken, error) {
	if req.SubjectID == 0 {
		return nil, domain.ErrInvalidSubject
	}
	if strings.TrimSpace(req.Token) == "" {
		return nil, domain.ErrInvalidToken
	}
	if strings.TrimSpace(req.Platform) == "" {
		return nil, domain.ErrInvalidPlatform
	}

	existing, err := s.repo.GetToken(ctx, req.Token)
	switch {
	case err == nil:
		if existing.SubjectID != req.SubjectID {
			return nil, domain.ErrTokenOwned
		}
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	t := domain.DeviceToken{
		ID:        s.genID.Generate(),
		SubjectID: req.SubjectID,
		Token:     req.Token,
		Platform:  strings.ToLower(req.Platform),
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateToken(ctx, t); err != nil {
		// Lost a race with a concurrent registration of the same token.
		if pkgdb.IsDuplicateKeyErr(err) {
			return s.repo.GetToken(ctx, req.Token)
		}
		return nil, err
	}
	return &t, nil
}

func (s *service) UnregisterToken(ctx context.Context, subjectID snowflake.ID, token string) error {
	if subjectID == 0 {
		return domain.ErrInvalidSubject
	}
	if strings.TrimSpace(token) == "" {
		return domain.ErrInvalidToken
	}
	return s.repo.DeleteToken(ctx, subjectID, token)
}
