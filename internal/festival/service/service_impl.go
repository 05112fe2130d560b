package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/sqlservernerd/festguide/internal/authorization"
	"github.com/sqlservernerd/festguide/internal/clock"
	"github.com/sqlservernerd/festguide/internal/festival/domain"
	permissiondomain "github.com/sqlservernerd/festguide/internal/permission/domain"
	pkgdb "github.com/sqlservernerd/festguide/pkg/db"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type service struct {
	db       *gorm.DB
	repo     domain.Repository
	perms    permissiondomain.Service
	authz    authorization.Service
	genID    *snowflake.Node
	clock    clock.Clock
	log      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo domain.Repository,
	perms permissiondomain.Service,
	authz authorization.Service,
	genID *snowflake.Node,
	clk clock.Clock,
	log *zap.Logger,
) domain.Service {
	return &service{
		db:       db,
		repo:     repo,
		perms:    perms,
		authz:    authz,
		genID:    genID,
		clock:    clk,
		log:      log.Named("festival.service"),
	}
}

// CreateFestival creates the festival and its owner permission in one
// transaction so a festival can never exist without exactly one owner.
func (s *service) CreateFestival(ctx context.Context, ownerID snowflake.ID, req domain.CreateFestivalRequest) (*domain.FestivalResponse, error) {
	if ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.clock.Now()
	f := domain.Festival{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(req.Description),
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateFestival(ctx, f); err != nil {
			return err
		}
		return s.perms.GrantOwner(ctx, tx, f.ID, ownerID)
	})
	if err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("festival created",
		zap.String("festival_id", f.ID.String()),
		zap.String("owner_id", ownerID.String()))

	return &domain.FestivalResponse{
		ID:          f.ID.String(),
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
	}, nil
}

func (s *service) GetFestival(ctx context.Context, id snowflake.ID) (*domain.FestivalResponse, error) {
	f, err := s.repo.GetFestival(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.FestivalResponse{
		ID:          f.ID.String(),
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
	}, nil
}

func (s *service) UpdateFestival(ctx context.Context, actorID, festivalID snowflake.ID, req domain.UpdateFestivalRequest) (*domain.FestivalResponse, error) {
	if festivalID == 0 {
		return nil, domain.ErrInvalidFestival
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	f, err := s.repo.GetFestival(ctx, festivalID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireMutation(ctx, actorID, festivalID, permissiondomain.ScopeAll); err != nil {
		return nil, err
	}

	f.Name = name
	f.Description = strings.TrimSpace(req.Description)
	f.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateFestival(ctx, *f); err != nil {
		return nil, err
	}
	return &domain.FestivalResponse{
		ID:          f.ID.String(),
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
	}, nil
}

func (s *service) ListFestivals(ctx context.Context, subjectID snowflake.ID) ([]domain.FestivalListResponseItem, error) {
	if subjectID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	items, err := s.repo.ListFestivalsBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.FestivalListResponseItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.FestivalListResponseItem{
			ID:        item.ID.String(),
			Name:      item.Name,
			Slug:      item.Slug,
			Role:      permissiondomain.Role(item.Role).String(),
			CreatedAt: item.CreatedAt,
		})
	}
	return resp, nil
}

func (s *service) CreateEdition(ctx context.Context, actorID snowflake.ID, req domain.CreateEditionRequest) (*domain.Edition, error) {
	if req.FestivalID == 0 {
		return nil, domain.ErrInvalidFestival
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	if !req.StartsOn.Before(req.EndsOn) {
		return nil, domain.ErrInvalidDates
	}
	if _, err := s.repo.GetFestival(ctx, req.FestivalID); err != nil {
		return nil, err
	}
	if err := s.authz.RequireMutation(ctx, actorID, req.FestivalID, permissiondomain.ScopeEditions); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	e := domain.Edition{
		ID:         s.genID.Generate(),
		FestivalID: req.FestivalID,
		Name:       strings.TrimSpace(req.Name),
		Status:     domain.EditionDraft,
		StartsOn:   req.StartsOn.UTC(),
		EndsOn:     req.EndsOn.UTC(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateEdition(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *service) ListEditions(ctx context.Context, festivalID snowflake.ID) ([]domain.Edition, error) {
	if festivalID == 0 {
		return nil, domain.ErrInvalidFestival
	}
	return s.repo.ListEditions(ctx, festivalID)
}

func (s *service) CreateVenue(ctx context.Context, actorID snowflake.ID, req domain.CreateVenueRequest) (*domain.Venue, error) {
	if req.FestivalID == 0 {
		return nil, domain.ErrInvalidFestival
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	if _, err := s.repo.GetFestival(ctx, req.FestivalID); err != nil {
		return nil, err
	}
	if err := s.authz.RequireMutation(ctx, actorID, req.FestivalID, permissiondomain.ScopeVenues); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	v := domain.Venue{
		ID:         s.genID.Generate(),
		FestivalID: req.FestivalID,
		Name:       strings.TrimSpace(req.Name),
		Address:    strings.TrimSpace(req.Address),
		City:       strings.TrimSpace(req.City),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateVenue(ctx, v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *service) CreateStage(ctx context.Context, actorID snowflake.ID, req domain.CreateStageRequest) (*domain.Stage, error) {
	if req.VenueID == 0 {
		return nil, domain.ErrInvalidVenue
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.ErrInvalidName
	}

	venue, err := s.repo.GetVenue(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireMutation(ctx, actorID, venue.FestivalID, permissiondomain.ScopeVenues); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	st := domain.Stage{
		ID:        s.genID.Generate(),
		VenueID:   req.VenueID,
		Name:      strings.TrimSpace(req.Name),
		Capacity:  req.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateStage(ctx, st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *service) UpdateStage(ctx context.Context, actorID, stageID snowflake.ID, req domain.UpdateStageRequest) (*domain.Stage, error) {
	if stageID == 0 {
		return nil, domain.ErrInvalidVenue
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.ErrInvalidName
	}

	st, err := s.repo.GetStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	venue, err := s.repo.GetVenue(ctx, st.VenueID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireMutation(ctx, actorID, venue.FestivalID, permissiondomain.ScopeVenues); err != nil {
		return nil, err
	}

	st.Name = strings.TrimSpace(req.Name)
	st.Capacity = req.Capacity
	st.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateStage(ctx, *st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) DeleteStage(ctx context.Context, actorID, stageID snowflake.ID) error {
	st, err := s.repo.GetStage(ctx, stageID)
	if err != nil {
		return err
	}
	venue, err := s.repo.GetVenue(ctx, st.VenueID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireMutation(ctx, actorID, venue.FestivalID, permissiondomain.ScopeVenues); err != nil {
		return err
	}

	// A stage with live slots keeps its schedule; clear the slots first.
	inUse, err := s.repo.StageInUse(ctx, stageID)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrStageInUse
	}
	return s.repo.DeleteStage(ctx, stageID)
}

func (s *service) CreateArtist(ctx context.Context, actorID snowflake.ID, req domain.CreateArtistRequest) (*domain.Artist, error) {
	if req.FestivalID == 0 {
		return nil, domain.ErrInvalidFestival
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	if _, err := s.repo.GetFestival(ctx, req.FestivalID); err != nil {
		return nil, err
	}
	if err := s.authz.RequireMutation(ctx, actorID, req.FestivalID, permissiondomain.ScopeArtists); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	a := domain.Artist{
		ID:         s.genID.Generate(),
		FestivalID: req.FestivalID,
		Name:       strings.TrimSpace(req.Name),
		Genre:      strings.TrimSpace(req.Genre),
		Bio:        strings.TrimSpace(req.Bio),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateArtist(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *service) ListArtists(ctx context.Context, festivalID snowflake.ID) ([]domain.Artist, error) {
	if festivalID == 0 {
		return nil, domain.ErrInvalidFestival
	}
	if _, err := s.repo.GetFestival(ctx, festivalID); err != nil {
		return nil, err
	}
	return s.repo.ListArtists(ctx, festivalID)
}
