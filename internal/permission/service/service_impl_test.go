package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/sqlservernerd/festguide/internal/clock"
	"github.com/sqlservernerd/festguide/internal/permission/domain"
	"github.com/sqlservernerd/festguide/internal/permission/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	svc   domain.Service
	repo  domain.Repository
	node  *snowflake.Node
	clock *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Permission{}))
	// Postgres enforces these as partial unique indexes; sqlite needs them
	// spelled out for the conflict paths to fire.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_permissions_active
		ON permissions (festival_id, subject_id)
		WHERE NOT is_pending AND NOT is_revoked`)
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_permissions_owner
		ON permissions (festival_id)
		WHERE role = 3 AND NOT is_pending AND NOT is_revoked`)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	repo := repository.NewRepository(db)

	return &fixture{
		db:    db,
		svc:   NewService(db, repo, node, clk, zaptest.NewLogger(t)),
		repo:  repo,
		node:  node,
		clock: clk,
	}
}

func (f *fixture) seedOwner(t *testing.T, festivalID, ownerID snowflake.ID) {
	t.Helper()
	require.NoError(t, f.svc.GrantOwner(context.Background(), f.db, festivalID, ownerID))
}

func (f *fixture) seedActive(t *testing.T, festivalID, subjectID snowflake.ID, role domain.Role, scope domain.Scope) snowflake.ID {
	t.Helper()
	now := f.clock.Now()
	p := domain.Permission{
		ID:         f.node.Generate(),
		FestivalID: festivalID,
		SubjectID:  subjectID,
		Role:       role,
		Scope:      scope,
		AcceptedAt: &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.repo.Create(context.Background(), p))
	return p.ID
}

func TestInviteRequiresAdministrator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	manager := f.node.Generate()
	invitee := f.node.Generate()

	f.seedOwner(t, festivalID, owner)
	f.seedActive(t, festivalID, manager, domain.RoleManager, domain.ScopeAll)

	_, err := f.svc.Invite(ctx, manager, domain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  invitee,
		Role:       domain.RoleViewer,
		Scope:      domain.ScopeSchedule,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	resp, err := f.svc.Invite(ctx, owner, domain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  invitee,
		Role:       domain.RoleViewer,
		Scope:      domain.ScopeSchedule,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsPending)
	assert.Equal(t, "viewer", resp.Role)
}

func TestInviteOwnerRoleRejected(t *testing.T) {
	f := newFixture(t)
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	f.seedOwner(t, festivalID, owner)

	_, err := f.svc.Invite(context.Background(), owner, domain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  f.node.Generate(),
		Role:       domain.RoleOwner,
		Scope:      domain.ScopeAll,
	})
	assert.ErrorIs(t, err, domain.ErrOwnerNotInvitable)
}

func TestInviteAdministratorScopeForcedToAll(t *testing.T) {
	f := newFixture(t)
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	f.seedOwner(t, festivalID, owner)

	resp, err := f.svc.Invite(context.Background(), owner, domain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  f.node.Generate(),
		Role:       domain.RoleAdministrator,
		Scope:      domain.ScopeVenues,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.ScopeAll), resp.Scope)
}

func TestInviteDuplicateRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	active := f.node.Generate()
	pending := f.node.Generate()

	f.seedOwner(t, festivalID, owner)
	f.seedActive(t, festivalID, active, domain.RoleViewer, domain.ScopeAll)

	_, err := f.svc.Invite(ctx, owner, domain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  active,
		Role:       domain.RoleManager,
		Scope:      domain.ScopeAll,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyActive)

	_, err = f.svc.Invite(ctx, owner, domain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  pending,
		Role:       domain.RoleManager,
		Scope:      domain.ScopeAll,
	})
	require.NoError(t, err)

	_, err = f.svc.Invite(ctx, owner, domain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  pending,
		Role:       domain.RoleViewer,
		Scope:      domain.ScopeAll,
	})
	assert.ErrorIs(t, err, domain.ErrInvitePending)
}

func TestAcceptActivatesPermission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	invitee := f.node.Generate()
	f.seedOwner(t, festivalID, owner)

	resp, err := f.svc.Invite(ctx, owner, domain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  invitee,
		Role:       domain.RoleManager,
		Scope:      domain.ScopeSchedule,
	})
	require.NoError(t, err)
	permID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	// Only the invitee may act on the invite.
	err = f.svc.Accept(ctx, f.node.Generate(), permID)
	assert.ErrorIs(t, err, domain.ErrSubjectMismatch)

	require.NoError(t, f.svc.Accept(ctx, invitee, permID))

	p, err := f.repo.Active(ctx, festivalID, invitee)
	require.NoError(t, err)
	assert.True(t, p.Active())
	require.NotNil(t, p.AcceptedAt)
	assert.True(t, p.AcceptedAt.Equal(f.clock.Now()))

	// A second accept finds nothing pending.
	err = f.svc.Accept(ctx, invitee, permID)
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestDeclineTombstonesInvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	invitee := f.node.Generate()
	f.seedOwner(t, festivalID, owner)

	resp, err := f.svc.Invite(ctx, owner, domain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  invitee,
		Role:       domain.RoleViewer,
		Scope:      domain.ScopeAll,
	})
	require.NoError(t, err)
	permID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Decline(ctx, invitee, permID))

	p, err := f.repo.GetByID(ctx, permID)
	require.NoError(t, err)
	assert.True(t, p.IsRevoked)
	assert.NotNil(t, p.RevokedAt)

	// Declined invites can be re-issued.
	_, err = f.svc.Invite(ctx, owner, domain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  invitee,
		Role:       domain.RoleViewer,
		Scope:      domain.ScopeAll,
	})
	require.NoError(t, err)
}

func TestRevokeOwnerRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	f.seedOwner(t, festivalID, owner)

	ownerPerm, err := f.repo.Owner(ctx, festivalID)
	require.NoError(t, err)

	err = f.svc.Revoke(ctx, owner, ownerPerm.ID)
	assert.ErrorIs(t, err, domain.ErrOwnerRevocation)
}

func TestRevokeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	collaborator := f.node.Generate()
	f.seedOwner(t, festivalID, owner)
	permID := f.seedActive(t, festivalID, collaborator, domain.RoleManager, domain.ScopeVenues)

	require.NoError(t, f.svc.Revoke(ctx, owner, permID))
	require.NoError(t, f.svc.Revoke(ctx, owner, permID))

	_, err := f.repo.Active(ctx, festivalID, collaborator)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The tombstone row itself survives.
	p, err := f.repo.GetByID(ctx, permID)
	require.NoError(t, err)
	assert.True(t, p.IsRevoked)
}

func TestRevokeRequiresAdministrator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	manager := f.node.Generate()
	viewer := f.node.Generate()
	f.seedOwner(t, festivalID, owner)
	f.seedActive(t, festivalID, manager, domain.RoleManager, domain.ScopeAll)
	permID := f.seedActive(t, festivalID, viewer, domain.RoleViewer, domain.ScopeAll)

	err := f.svc.Revoke(ctx, manager, permID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransferOwnershipSwapsRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	successor := f.node.Generate()
	f.seedOwner(t, festivalID, owner)
	f.seedActive(t, festivalID, successor, domain.RoleManager, domain.ScopeSchedule)

	require.NoError(t, f.svc.TransferOwnership(ctx, festivalID, owner, successor))

	newOwner, err := f.repo.Owner(ctx, festivalID)
	require.NoError(t, err)
	assert.Equal(t, successor, newOwner.SubjectID)
	assert.Equal(t, domain.ScopeAll, newOwner.Scope)

	demoted, err := f.repo.Active(ctx, festivalID, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdministrator, demoted.Role)
}

func TestTransferOwnershipToOutsiderCreatesActiveGrant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	outsider := f.node.Generate()
	f.seedOwner(t, festivalID, owner)

	require.NoError(t, f.svc.TransferOwnership(ctx, festivalID, owner, outsider))

	newOwner, err := f.repo.Owner(ctx, festivalID)
	require.NoError(t, err)
	assert.Equal(t, outsider, newOwner.SubjectID)
	assert.NotNil(t, newOwner.AcceptedAt)
}

func TestTransferOwnershipRequiresCurrentOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	admin := f.node.Generate()
	f.seedOwner(t, festivalID, owner)
	f.seedActive(t, festivalID, admin, domain.RoleAdministrator, domain.ScopeAll)

	err := f.svc.TransferOwnership(ctx, festivalID, admin, f.node.Generate())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// The failed transfer must not have touched the owner row.
	current, err := f.repo.Owner(ctx, festivalID)
	require.NoError(t, err)
	assert.Equal(t, owner, current.SubjectID)
}

func TestListCollaboratorsRequiresMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	festivalID := f.node.Generate()
	owner := f.node.Generate()
	f.seedOwner(t, festivalID, owner)

	_, err := f.svc.ListCollaborators(ctx, f.node.Generate(), festivalID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := f.svc.ListCollaborators(ctx, owner, festivalID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
