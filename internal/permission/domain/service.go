package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Service is the invitation workflow. It is the only writer of Permission
// besides the owner grant at festival creation.
type Service interface {
	Invite(ctx context.Context, inviterID snowflake.ID, req InviteRequest) (*PermissionResponse, error)
	Accept(ctx context.Context, subjectID, permissionID snowflake.ID) error
	Decline(ctx context.Context, subjectID, permissionID snowflake.ID) error
	Revoke(ctx context.Context, requesterID, permissionID snowflake.ID) error
	TransferOwnership(ctx context.Context, festivalID, currentOwnerID, newOwnerID snowflake.ID) error
	ListCollaborators(ctx context.Context, requesterID, festivalID snowflake.ID) ([]PermissionResponse, error)

	// GrantOwner creates the active owner permission inside the festival
	// creation transaction.
	GrantOwner(ctx context.Context, tx *gorm.DB, festivalID, ownerID snowflake.ID) error
}

type InviteRequest struct {
	FestivalID snowflake.ID
	InviteeID  snowflake.ID
	Role       Role
	Scope      Scope
}

type PermissionResponse struct {
	ID         string     `json:"id"`
	FestivalID string     `json:"festival_id"`
	SubjectID  string     `json:"subject_id"`
	Role       string     `json:"role"`
	Scope      string     `json:"scope"`
	IsPending  bool       `json:"is_pending"`
	IsRevoked  bool       `json:"is_revoked"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

var (
	ErrInvalidSubject    = errors.New("invalid_subject")
	ErrInvalidFestival   = errors.New("invalid_festival")
	ErrInvalidRole       = errors.New("invalid_role")
	ErrInvalidScope      = errors.New("invalid_scope")
	ErrOwnerNotInvitable = errors.New("owner_not_invitable")
	ErrAlreadyActive     = errors.New("collaborator_already_active")
	ErrInvitePending     = errors.New("invite_already_pending")
	ErrNotPending        = errors.New("invite_not_pending")
	ErrSubjectMismatch   = errors.New("invite_subject_mismatch")
	ErrOwnerRevocation   = errors.New("owner_permission_not_revocable")
	ErrForbidden         = errors.New("forbidden")
)

// NewResponse converts a stored permission to its wire shape.
func NewResponse(p Permission) PermissionResponse {
	return PermissionResponse{
		ID:         p.ID.String(),
		FestivalID: p.FestivalID.String(),
		SubjectID:  p.SubjectID.String(),
		Role:       p.Role.String(),
		Scope:      string(p.Scope),
		IsPending:  p.IsPending,
		IsRevoked:  p.IsRevoked,
		AcceptedAt: p.AcceptedAt,
	}
}
