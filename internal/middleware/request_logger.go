package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jelajah/tour-booking-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		device := utils.ParseUserAgent(utils.GetUserAgent(c))
		fields := logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"latency_ms":  time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"device_type": device.DeviceType,
			"os":          device.OS,
			"browser":     device.Browser,
			"bot":         device.IsBot,
		}
		if userCtx, ok := GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}
