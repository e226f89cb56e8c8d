package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// statusFor maps a domain error kind to its HTTP status
func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindCapacityExceeded, models.KindInvalidState:
		return http.StatusConflict
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

var errorNames = map[models.ErrorKind]string{
	models.KindValidation:       "validation_error",
	models.KindCapacityExceeded: "capacity_exceeded",
	models.KindInvalidState:     "invalid_state",
	models.KindForbidden:        "forbidden",
	models.KindNotFound:         "not_found",
}

// respondError writes err as an ErrorResponse. Errors that are not domain
// errors are logged and hidden behind a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	kind := models.KindOf(err)
	if kind == "" {
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong. Please try again later.",
			Code:    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(statusFor(kind), ErrorResponse{
		Error:   errorNames[kind],
		Message: err.Error(),
		Code:    string(kind),
	})
}

// respondBindError reports a request that failed binding or tag validation
func respondBindError(c *gin.Context, err error) {
	message := "Invalid request format"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		message = fieldMessage(verrs[0])
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
		Code:    string(models.KindValidation),
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "isodate":
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
