package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) PublishSchedule(c *gin.Context) {
	editionID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.scheduleSvc.Publish(c.Request.Context(), actorID(c), editionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetEditionSchedule(c *gin.Context) {
	editionID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	lines, err := s.schedulingSvc.EditionSchedule(c.Request.Context(), editionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lines})
}

// GetScheduleVersion lets attendee clients poll cheaply for changes. An
// edition that was never published reports version 0.
func (s *Server) GetScheduleVersion(c *gin.Context) {
	editionID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	sched, err := s.scheduleSvc.Get(c.Request.Context(), editionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"data": gin.H{
				"edition_id": editionID.String(),
				"version":    0,
			}})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"edition_id":   sched.EditionID.String(),
		"version":      sched.Version,
		"published_at": sched.PublishedAt,
	}})
}

func (s *Server) ExportEditionSchedule(c *gin.Context) {
	editionID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	// Render before touching headers so a failed fetch still returns the
	// JSON error body under its own content type.
	data, err := s.exporter.EditionCSV(c.Request.Context(), editionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule-`+editionID.String()+`.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
