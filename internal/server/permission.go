package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	permissiondomain "github.com/sqlservernerd/festguide/internal/permission/domain"
)

type createInviteRequest struct {
	FestivalID string `json:"festival_id"`
	InviteeID  string `json:"invitee_id"`
	Role       string `json:"role"`
	Scope      string `json:"scope"`
}

type transferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id"`
}

func (s *Server) CreateInvite(c *gin.Context) {
	var req createInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	festivalID, ok := parseSnowflakeField(req.FestivalID)
	if !ok {
		AbortWithError(c, newValidationError("festival_id", "invalid_festival", "invalid festival id"))
		return
	}
	inviteeID, ok := parseSnowflakeField(req.InviteeID)
	if !ok {
		AbortWithError(c, newValidationError("invitee_id", "invalid_subject", "invalid invitee id"))
		return
	}
	role, ok := permissiondomain.ParseRole(strings.TrimSpace(req.Role))
	if !ok {
		AbortWithError(c, newValidationError("role", "invalid_role", "invalid role"))
		return
	}

	resp, err := s.permissionSvc.Invite(c.Request.Context(), actorID(c), permissiondomain.InviteRequest{
		FestivalID: festivalID,
		InviteeID:  inviteeID,
		Role:       role,
		Scope:      permissiondomain.Scope(strings.TrimSpace(req.Scope)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) AcceptInvite(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.permissionSvc.Accept(c.Request.Context(), actorID(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

func (s *Server) DeclineInvite(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.permissionSvc.Decline(c.Request.Context(), actorID(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "declined"})
}

func (s *Server) RevokePermission(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.permissionSvc.Revoke(c.Request.Context(), actorID(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "revoked"})
}

func (s *Server) TransferOwnership(c *gin.Context) {
	festivalID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req transferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	newOwnerID, ok := parseSnowflakeField(req.NewOwnerID)
	if !ok {
		AbortWithError(c, newValidationError("new_owner_id", "invalid_subject", "invalid new owner id"))
		return
	}

	if err := s.permissionSvc.TransferOwnership(c.Request.Context(), festivalID, actorID(c), newOwnerID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "transferred"})
}

func (s *Server) ListCollaborators(c *gin.Context) {
	festivalID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.permissionSvc.ListCollaborators(c.Request.Context(), actorID(c), festivalID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
