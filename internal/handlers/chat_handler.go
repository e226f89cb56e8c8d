package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ChatHandler serves the recommendation chat widget
type ChatHandler struct {
	chat      *services.ChatService
	rateLimit *services.RateLimitService
	logger    *logrus.Logger
}

// NewChatHandler creates a new ChatHandler. rateLimit may be nil.
func NewChatHandler(chat *services.ChatService, rateLimit *services.RateLimitService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		chat:      chat,
		rateLimit: rateLimit,
		logger:    logger,
	}
}

// Chat handles POST /api/v1/ai/chat
// @Summary Ask for tour recommendations
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Message and preferences"
// @Success 200 {object} models.ChatMessage
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/v1/ai/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	// forwarding headers count only from trusted proxies (RouteDeps.TrustedProxies)
	ip := c.ClientIP()
	if err := h.rateLimit.CheckChatRateLimit(c.Request.Context(), ip); err != nil {
		var rateErr *services.RateLimitError
		if errors.As(err, &rateErr) {
			h.logger.WithField("ip", ip).Warn("chat rate limit exceeded")
			retryAfter := int(time.Until(rateErr.RetryAfter).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: rateErr.Message,
				Code:    "RATE_LIMIT_EXCEEDED",
			})
			return
		}
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	msg, err := h.chat.Chat(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
