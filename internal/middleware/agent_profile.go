package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	AgentIDContextKey = "agent_id"
	AgentContextKey   = "agent"
)

// AgentLookup resolves the agent profile owned by a user
type AgentLookup interface {
	AgentForUser(ctx context.Context, userID string) (*models.Agent, error)
}

// RequireAgentProfile loads the caller's agent profile.
// Must be used after AuthMiddleware to have userCtx available
func RequireAgentProfile(agents AgentLookup, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User context not found",
				"code":    "MISSING_USER_CONTEXT",
			})
			return
		}

		agent, err := agents.AgentForUser(c.Request.Context(), userCtx.UserID)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				logger.WithError(err).WithField("user_id", userCtx.UserID).Error("failed to load agent profile")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "Failed to load agent profile",
					"code":    "INTERNAL_ERROR",
				})
				return
			}
			agent = nil
		}

		if agent == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "not_agent",
				"message": "Agent profile not found",
				"code":    "FORBIDDEN",
			})
			return
		}

		c.Set(AgentIDContextKey, agent.ID)
		c.Set(AgentContextKey, agent)
		c.Next()
	}
}

// GetAgentID returns the agent id stored by RequireAgentProfile
func GetAgentID(c *gin.Context) (string, bool) {
	id := c.GetString(AgentIDContextKey)
	return id, id != ""
}
