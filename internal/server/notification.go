package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	notificationdomain "github.com/sqlservernerd/festguide/internal/notification/domain"
)

type registerDeviceTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func (s *Server) RegisterDeviceToken(c *gin.Context) {
	var req registerDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.notificationSvc.RegisterToken(c.Request.Context(), notificationdomain.RegisterTokenRequest{
		SubjectID: actorID(c),
		Token:     strings.TrimSpace(req.Token),
		Platform:  strings.TrimSpace(req.Platform),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UnregisterDeviceToken(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, newValidationError("token", "invalid_token", "invalid token"))
		return
	}

	if err := s.notificationSvc.UnregisterToken(c.Request.Context(), actorID(c), token); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unregistered"})
}
