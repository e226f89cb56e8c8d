package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is implemented by stores backed by an external database
type Pinger interface {
	Ping() error
}

// HealthHandler reports liveness and the configured data source
type HealthHandler struct {
	dataSource string
	db         Pinger
	startedAt  time.Time
}

// NewHealthHandler creates a new HealthHandler. db is nil for the fixture store.
func NewHealthHandler(dataSource string, db Pinger) *HealthHandler {
	return &HealthHandler{dataSource: dataSource, db: db, startedAt: time.Now()}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":      "healthy",
		"service":     "tour-booking-backend",
		"data_source": h.dataSource,
		"uptime":      time.Since(h.startedAt).Round(time.Second).String(),
	}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			body["status"] = "unhealthy"
			body["database"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "connected"
	}
	c.JSON(http.StatusOK, body)
}
