// Package domain contains the permission model gating every festival mutation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role is the ordered standing of a subject on a festival. Comparisons are
// plain integer comparisons: RoleViewer < RoleManager < RoleAdministrator < RoleOwner.
type Role int16

const (
	RoleViewer        Role = 0
	RoleManager       Role = 1
	RoleAdministrator Role = 2
	RoleOwner         Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleViewer:
		return "viewer"
	case RoleManager:
		return "manager"
	case RoleAdministrator:
		return "administrator"
	case RoleOwner:
		return "owner"
	default:
		return "unknown"
	}
}

func (r Role) Valid() bool {
	return r >= RoleViewer && r <= RoleOwner
}

// ParseRole maps a wire value to a Role.
func ParseRole(raw string) (Role, bool) {
	switch raw {
	case "viewer":
		return RoleViewer, true
	case "manager":
		return RoleManager, true
	case "administrator":
		return RoleAdministrator, true
	case "owner":
		return RoleOwner, true
	default:
		return RoleViewer, false
	}
}

// Scope narrows a Manager's or Viewer's authority to one functional area.
// It is unordered; ScopeAll grants every area. Administrators and Owners
// have full access regardless of the stored scope.
type Scope string

const (
	ScopeAll          Scope = "all"
	ScopeVenues       Scope = "venues"
	ScopeSchedule     Scope = "schedule"
	ScopeArtists      Scope = "artists"
	ScopeEditions     Scope = "editions"
	ScopeIntegrations Scope = "integrations"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopeVenues, ScopeSchedule, ScopeArtists, ScopeEditions, ScopeIntegrations:
		return true
	default:
		return false
	}
}

// Permission is one subject's standing on one festival. Revocation is a
// tombstone: rows are never deleted, so the grant history stays auditable.
type Permission struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	FestivalID snowflake.ID  `gorm:"column:festival_id;not null;index" json:"festival_id"`
	SubjectID  snowflake.ID  `gorm:"column:subject_id;not null" json:"subject_id"`
	Role       Role          `gorm:"column:role;type:smallint;not null" json:"role"`
	Scope      Scope         `gorm:"column:scope;type:text;not null" json:"scope"`
	InvitedBy  *snowflake.ID `gorm:"column:invited_by" json:"invited_by,omitempty"`
	AcceptedAt *time.Time    `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	IsPending  bool          `gorm:"column:is_pending;not null" json:"is_pending"`
	IsRevoked  bool          `gorm:"column:is_revoked;not null" json:"is_revoked"`
	RevokedAt  *time.Time    `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Permission) TableName() string { return "permissions" }

// Active reports whether the permission currently grants anything.
func (p Permission) Active() bool {
	return !p.IsPending && !p.IsRevoked
}

// Grants reports whether the permission covers the required scope.
// Role dominance: Administrator and above ignore the stored scope.
func (p Permission) Grants(required Scope) bool {
	if !p.Active() {
		return false
	}
	if p.Role >= RoleAdministrator {
		return true
	}
	return p.Scope == ScopeAll || p.Scope == required
}
