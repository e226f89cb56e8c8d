package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jelajah/tour-booking-backend/internal/middleware"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// AgentHandler handles the agent dashboard: packages, slots and booking
// status updates. Routes sit behind RequireAgentProfile.
type AgentHandler struct {
	catalog  *services.CatalogService
	bookings *services.BookingLedger
	logger   *logrus.Logger
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(catalog *services.CatalogService, bookings *services.BookingLedger, logger *logrus.Logger) *AgentHandler {
	return &AgentHandler{
		catalog:  catalog,
		bookings: bookings,
		logger:   logger,
	}
}

// agentID returns the agent resolved by RequireAgentProfile
func agentID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetAgentID(c)
	if !ok {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "not_agent",
			Message: "Agent profile not found",
			Code:    string(models.KindForbidden),
		})
	}
	return id, ok
}

// ListMyPackages handles GET /api/v1/agents/me/tour-packages
func (h *AgentHandler) ListMyPackages(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}

	pkgs, err := h.catalog.ListAgentPackages(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tour_packages": pkgs, "total": len(pkgs)})
}

// Stats handles GET /api/v1/agents/me/stats
func (h *AgentHandler) Stats(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}

	stats, err := h.catalog.AgentStats(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CreatePackage creates a tour package owned by the calling agent
// @Summary Create a tour package
// @Tags Agent
// @Accept json
// @Produce json
// @Param request body models.CreateTourPackageRequest true "Package form"
// @Success 201 {object} models.TourPackageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/agents/tour-packages [post]
func (h *AgentHandler) CreatePackage(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}

	var req models.CreateTourPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pkg, err := h.catalog.CreatePackage(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

// AddAvailability handles POST /api/v1/agents/tour-packages/:id/availability
func (h *AgentHandler) AddAvailability(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}

	var req models.AddAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pkg, err := h.catalog.AddAvailability(c.Request.Context(), c.Param("id"), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

// Deactivate handles POST /api/v1/agents/tour-packages/:id/deactivate
func (h *AgentHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

// Activate handles POST /api/v1/agents/tour-packages/:id/activate
func (h *AgentHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *AgentHandler) setActive(c *gin.Context, active bool) {
	id, ok := agentID(c)
	if !ok {
		return
	}

	pkg, err := h.catalog.SetActive(c.Request.Context(), c.Param("id"), id, active)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// MarkPaid handles POST /api/v1/agents/bookings/:id/mark-paid.
// Payment itself is confirmed outside this service.
func (h *AgentHandler) MarkPaid(c *gin.Context) {
	h.advanceBooking(c, h.bookings.MarkPaid)
}

// CompleteBooking handles POST /api/v1/agents/bookings/:id/complete
func (h *AgentHandler) CompleteBooking(c *gin.Context) {
	h.advanceBooking(c, h.bookings.MarkCompleted)
}

func (h *AgentHandler) advanceBooking(c *gin.Context, advance func(ctx context.Context, bookingID string) (*models.Booking, error)) {
	id, ok := agentID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	bookingID := c.Param("id")
	if err := h.bookings.AuthorizeAgent(ctx, bookingID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	booking, err := advance(ctx, bookingID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
