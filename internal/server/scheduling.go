package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	schedulingdomain "github.com/sqlservernerd/festguide/internal/scheduling/domain"
)

type createTimeSlotRequest struct {
	StageID   string `json:"stage_id"`
	EditionID string `json:"edition_id"`
	Title     string `json:"title"`
	StartUTC  string `json:"start_utc"`
	EndUTC    string `json:"end_utc"`
}

type updateTimeSlotRequest struct {
	Title    string `json:"title"`
	StartUTC string `json:"start_utc"`
	EndUTC   string `json:"end_utc"`
}

type createEngagementRequest struct {
	TimeSlotID string `json:"time_slot_id"`
	ArtistID   string `json:"artist_id"`
	Notes      string `json:"notes"`
}

type updateEngagementRequest struct {
	ArtistID string `json:"artist_id"`
	Notes    string `json:"notes"`
}

func (s *Server) CreateTimeSlot(c *gin.Context) {
	var req createTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	stageID, ok := parseSnowflakeField(req.StageID)
	if !ok {
		AbortWithError(c, newValidationError("stage_id", "invalid_stage", "invalid stage id"))
		return
	}
	editionID, ok := parseSnowflakeField(req.EditionID)
	if !ok {
		AbortWithError(c, newValidationError("edition_id", "invalid_edition", "invalid edition id"))
		return
	}
	start, end, err := parseInterval(req.StartUTC, req.EndUTC)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.schedulingSvc.CreateTimeSlot(c.Request.Context(), actorID(c), schedulingdomain.CreateTimeSlotRequest{
		StageID:   stageID,
		EditionID: editionID,
		Title:     strings.TrimSpace(req.Title),
		StartUTC:  start,
		EndUTC:    end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateTimeSlot(c *gin.Context) {
	slotID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req updateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	start, end, err := parseInterval(req.StartUTC, req.EndUTC)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.schedulingSvc.UpdateTimeSlot(c.Request.Context(), actorID(c), slotID, schedulingdomain.UpdateTimeSlotRequest{
		Title:    strings.TrimSpace(req.Title),
		StartUTC: start,
		EndUTC:   end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTimeSlot(c *gin.Context) {
	slotID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.schedulingSvc.DeleteTimeSlot(c.Request.Context(), actorID(c), slotID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) CreateEngagement(c *gin.Context) {
	var req createEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	slotID, ok := parseSnowflakeField(req.TimeSlotID)
	if !ok {
		AbortWithError(c, newValidationError("time_slot_id", "invalid_time_slot", "invalid time slot id"))
		return
	}
	artistID, ok := parseSnowflakeField(req.ArtistID)
	if !ok {
		AbortWithError(c, newValidationError("artist_id", "invalid_artist", "invalid artist id"))
		return
	}

	resp, err := s.schedulingSvc.CreateEngagement(c.Request.Context(), actorID(c), schedulingdomain.CreateEngagementRequest{
		TimeSlotID: slotID,
		ArtistID:   artistID,
		Notes:      strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateEngagement(c *gin.Context) {
	engagementID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req updateEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	// An omitted artist_id leaves the current artist in place.
	var artistID snowflake.ID
	if req.ArtistID != "" {
		id, ok := parseSnowflakeField(req.ArtistID)
		if !ok {
			AbortWithError(c, newValidationError("artist_id", "invalid_artist", "invalid artist id"))
			return
		}
		artistID = id
	}

	resp, err := s.schedulingSvc.UpdateEngagement(c.Request.Context(), actorID(c), engagementID, schedulingdomain.UpdateEngagementRequest{
		ArtistID: artistID,
		Notes:    strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteEngagement(c *gin.Context) {
	engagementID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.schedulingSvc.DeleteEngagement(c.Request.Context(), actorID(c), engagementID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func parseInterval(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(startRaw))
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError("start_utc", "invalid_interval", "invalid start_utc")
	}
	end, err := time.Parse(time.RFC3339, strings.TrimSpace(endRaw))
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError("end_utc", "invalid_interval", "invalid end_utc")
	}
	return start.UTC(), end.UTC(), nil
}
