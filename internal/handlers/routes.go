package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jelajah/tour-booking-backend/internal/middleware"
	"github.com/jelajah/tour-booking-backend/internal/services"
	"github.com/jelajah/tour-booking-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
)

// RouteDeps carries what the API routes need. RateLimit may be nil.
// TrustedProxies lists the proxy IPs/CIDRs whose forwarding headers set the
// client IP; when empty the socket peer is always the client.
type RouteDeps struct {
	Services       *services.Services
	RateLimit      *services.RateLimitService
	JWT            *jwt.Service
	Health         *HealthHandler
	Logger         *logrus.Logger
	TrustedProxies []string
}

// RegisterRoutes mounts /health and the /api/v1 routes on router
func RegisterRoutes(router *gin.Engine, deps RouteDeps) error {
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	svc := deps.Services
	logger := deps.Logger

	tourHandler := NewTourHandler(svc.Search, svc.Catalog, svc.Directory, logger)
	bookingHandler := NewBookingHandler(svc.Bookings, svc.Vouchers, logger)
	agentHandler := NewAgentHandler(svc.Catalog, svc.Bookings, logger)
	chatHandler := NewChatHandler(svc.Chat, deps.RateLimit, logger)

	router.GET("/health", deps.Health.Health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", deps.Health.Health)

		// Public catalog; a valid token only changes what an agent sees of
		// their own inactive packages.
		public := v1.Group("")
		public.Use(middleware.OptionalAuth(deps.JWT))
		{
			public.GET("/landing/filters", tourHandler.LandingFilters)
			public.GET("/locations", tourHandler.ListLocations)
			public.GET("/tours/search", tourHandler.SearchTours)
			public.GET("/tours/:id", tourHandler.GetTour)
			public.GET("/agents", tourHandler.ListAgents)
			public.GET("/agents/:id", tourHandler.GetAgent)
			public.POST("/ai/chat", chatHandler.Chat)
		}

		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(deps.JWT, logger))
		{
			authed.POST("/bookings", bookingHandler.CreateBooking)
			authed.GET("/bookings/:id", bookingHandler.GetBooking)
			authed.POST("/bookings/:id/cancel", bookingHandler.CancelBooking)
			authed.GET("/bookings/:id/voucher", bookingHandler.DownloadVoucher)
			authed.GET("/users/me/bookings", bookingHandler.ListMyBookings)
		}

		agents := v1.Group("/agents")
		agents.Use(
			middleware.AuthMiddleware(deps.JWT, logger),
			middleware.RequireRole(jwt.RoleAgent),
			middleware.RequireAgentProfile(svc.Directory, logger),
		)
		{
			agents.GET("/me/tour-packages", agentHandler.ListMyPackages)
			agents.GET("/me/stats", agentHandler.Stats)
			agents.POST("/tour-packages", agentHandler.CreatePackage)
			agents.POST("/tour-packages/:id/availability", agentHandler.AddAvailability)
			agents.POST("/tour-packages/:id/deactivate", agentHandler.Deactivate)
			agents.POST("/tour-packages/:id/activate", agentHandler.Activate)
			agents.POST("/bookings/:id/mark-paid", agentHandler.MarkPaid)
			agents.POST("/bookings/:id/complete", agentHandler.CompleteBooking)
		}
	}
	return nil
}
