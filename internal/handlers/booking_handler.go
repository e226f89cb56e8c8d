package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jelajah/tour-booking-backend/internal/middleware"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// BookingHandler handles traveller booking operations
type BookingHandler struct {
	bookings *services.BookingLedger
	vouchers *services.VoucherService
	logger   *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *services.BookingLedger, vouchers *services.VoucherService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		vouchers: vouchers,
		logger:   logger,
	}
}

// CreateBooking creates a new booking
// @Summary Book a tour slot
// @Description Reserves total_people places on one availability slot and records a PENDING booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} models.Booking "Booking created successfully"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Package or slot not found"
// @Failure 409 {object} ErrorResponse "Not enough available slots"
// @Security BearerAuth
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), userCtx.UserID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBooking handles GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	booking, err := h.bookings.GetBooking(c.Request.Context(), c.Param("id"), userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListMyBookings handles GET /api/v1/users/me/bookings
// @Summary List the caller's bookings, newest first
// @Tags Bookings
// @Produce json
// @Success 200 {array} models.BookingResponse
// @Security BearerAuth
// @Router /api/v1/users/me/bookings [get]
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	bookings, err := h.bookings.ListUserBookings(c.Request.Context(), userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CancelBooking cancels a booking and returns its places to the slot
// @Summary Cancel a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} models.CancelBookingResponse
// @Failure 403 {object} ErrorResponse "Not the booker or owning agent"
// @Failure 404 {object} ErrorResponse "Booking not found"
// @Failure 409 {object} ErrorResponse "Booking already cancelled or completed"
// @Security BearerAuth
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	resp, err := h.bookings.CancelBooking(c.Request.Context(), c.Param("id"), userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadVoucher handles GET /api/v1/bookings/:id/voucher
func (h *BookingHandler) DownloadVoucher(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	pdf, filename, err := h.vouchers.Render(c.Request.Context(), c.Param("id"), userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
