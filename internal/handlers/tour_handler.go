package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jelajah/tour-booking-backend/internal/middleware"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// TourHandler serves the public catalog: search, package detail, locations and agents
type TourHandler struct {
	search    *services.SearchService
	catalog   *services.CatalogService
	directory *services.DirectoryService
	logger    *logrus.Logger
}

// NewTourHandler creates a new TourHandler
func NewTourHandler(
	search *services.SearchService,
	catalog *services.CatalogService,
	directory *services.DirectoryService,
	logger *logrus.Logger,
) *TourHandler {
	return &TourHandler{
		search:    search,
		catalog:   catalog,
		directory: directory,
		logger:    logger,
	}
}

// SearchTours handles GET /api/v1/tours/search
// @Summary Search active tour packages
// @Tags Tours
// @Produce json
// @Param location query string false "Location name (substring, case-insensitive)"
// @Param max_days query int false "Longest trip the traveller accepts"
// @Param min_price query int false "Minimum price per person (IDR)"
// @Param max_price query int false "Maximum price per person (IDR)"
// @Param total_people query int false "Group size"
// @Param start_date query string false "Window start (YYYY-MM-DD)"
// @Param end_date query string false "Window end (YYYY-MM-DD)"
// @Param sort query string false "recommended, price_low, price_high or rating"
// @Success 200 {object} models.PaginatedResponse[models.TourPackageResponse]
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/tours/search [get]
func (h *TourHandler) SearchTours(c *gin.Context) {
	var q models.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.search.SearchPage(c.Request.Context(), &q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetTour handles GET /api/v1/tours/:id
// The owning agent also sees its inactive packages.
func (h *TourHandler) GetTour(c *gin.Context) {
	ctx := c.Request.Context()

	viewerAgentID := ""
	if userCtx, ok := middleware.GetUserContext(c); ok && userCtx.IsAgent() {
		if agent, err := h.directory.AgentForUser(ctx, userCtx.UserID); err == nil {
			viewerAgentID = agent.ID
		}
	}

	tour, err := h.catalog.GetPackage(ctx, c.Param("id"), viewerAgentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tour)
}

// ListLocations handles GET /api/v1/locations
func (h *TourHandler) ListLocations(c *gin.Context) {
	locations, err := h.directory.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// LandingFilters handles GET /api/v1/landing/filters
func (h *TourHandler) LandingFilters(c *gin.Context) {
	filters, err := h.directory.LandingFilters(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, filters)
}

// ListAgents handles GET /api/v1/agents
func (h *TourHandler) ListAgents(c *gin.Context) {
	var q struct {
		Location string `form:"location"`
		models.PageQuery
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.directory.ListAgents(c.Request.Context(), q.Location, q.PageQuery)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetAgent handles GET /api/v1/agents/:id
func (h *TourHandler) GetAgent(c *gin.Context) {
	agent, err := h.directory.GetAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}
