package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	festivaldomain "github.com/sqlservernerd/festguide/internal/festival/domain"
)

type createFestivalRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type createEditionRequest struct {
	FestivalID string `json:"festival_id"`
	Name       string `json:"name"`
	StartsOn   string `json:"starts_on"`
	EndsOn     string `json:"ends_on"`
}

type createVenueRequest struct {
	FestivalID string `json:"festival_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
}

type createStageRequest struct {
	VenueID  string `json:"venue_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type createArtistRequest struct {
	FestivalID string `json:"festival_id"`
	Name       string `json:"name"`
	Genre      string `json:"genre"`
	Bio        string `json:"bio"`
}

func (s *Server) CreateFestival(c *gin.Context) {
	var req createFestivalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.festivalSvc.CreateFestival(c.Request.Context(), actorID(c), festivaldomain.CreateFestivalRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateFestival(c *gin.Context) {
	festivalID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req createFestivalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.festivalSvc.UpdateFestival(c.Request.Context(), actorID(c), festivalID, festivaldomain.UpdateFestivalRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetFestivalByID(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.festivalSvc.GetFestival(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFestivals(c *gin.Context) {
	resp, err := s.festivalSvc.ListFestivals(c.Request.Context(), actorID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateEdition(c *gin.Context) {
	var req createEditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	festivalID, ok := parseSnowflakeField(req.FestivalID)
	if !ok {
		AbortWithError(c, newValidationError("festival_id", "invalid_festival", "invalid festival id"))
		return
	}
	startsOn, err := time.Parse(time.RFC3339, req.StartsOn)
	if err != nil {
		AbortWithError(c, newValidationError("starts_on", "invalid_dates", "invalid starts_on"))
		return
	}
	endsOn, err := time.Parse(time.RFC3339, req.EndsOn)
	if err != nil {
		AbortWithError(c, newValidationError("ends_on", "invalid_dates", "invalid ends_on"))
		return
	}

	resp, err := s.festivalSvc.CreateEdition(c.Request.Context(), actorID(c), festivaldomain.CreateEditionRequest{
		FestivalID: festivalID,
		Name:       strings.TrimSpace(req.Name),
		StartsOn:   startsOn,
		EndsOn:     endsOn,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListEditions(c *gin.Context) {
	festivalID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.festivalSvc.ListEditions(c.Request.Context(), festivalID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateVenue(c *gin.Context) {
	var req createVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	festivalID, ok := parseSnowflakeField(req.FestivalID)
	if !ok {
		AbortWithError(c, newValidationError("festival_id", "invalid_festival", "invalid festival id"))
		return
	}

	resp, err := s.festivalSvc.CreateVenue(c.Request.Context(), actorID(c), festivaldomain.CreateVenueRequest{
		FestivalID: festivalID,
		Name:       strings.TrimSpace(req.Name),
		Address:    strings.TrimSpace(req.Address),
		City:       strings.TrimSpace(req.City),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) CreateStage(c *gin.Context) {
	var req createStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	venueID, ok := parseSnowflakeField(req.VenueID)
	if !ok {
		AbortWithError(c, newValidationError("venue_id", "invalid_venue", "invalid venue id"))
		return
	}

	resp, err := s.festivalSvc.CreateStage(c.Request.Context(), actorID(c), festivaldomain.CreateStageRequest{
		VenueID:  venueID,
		Name:     strings.TrimSpace(req.Name),
		Capacity: req.Capacity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateStage(c *gin.Context) {
	stageID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req struct {
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.festivalSvc.UpdateStage(c.Request.Context(), actorID(c), stageID, festivaldomain.UpdateStageRequest{
		Name:     strings.TrimSpace(req.Name),
		Capacity: req.Capacity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteStage(c *gin.Context) {
	stageID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.festivalSvc.DeleteStage(c.Request.Context(), actorID(c), stageID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) CreateArtist(c *gin.Context) {
	var req createArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	festivalID, ok := parseSnowflakeField(req.FestivalID)
	if !ok {
		AbortWithError(c, newValidationError("festival_id", "invalid_festival", "invalid festival id"))
		return
	}

	resp, err := s.festivalSvc.CreateArtist(c.Request.Context(), actorID(c), festivaldomain.CreateArtistRequest{
		FestivalID: festivalID,
		Name:       strings.TrimSpace(req.Name),
		Genre:      strings.TrimSpace(req.Genre),
		Bio:        strings.TrimSpace(req.Bio),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListArtists(c *gin.Context) {
	festivalID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.festivalSvc.ListArtists(c.Request.Context(), festivalID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
