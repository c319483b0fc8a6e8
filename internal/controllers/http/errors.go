package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"voice-order-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const apology = "Sorry, I encountered an error processing your request. Please try again."

func FormatValidationError(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}

	for _, err := range verrs {
		field := strings.ToLower(err.Field())

		switch err.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max", "lte":
			out[field] = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}

func badRequest(c *gin.Context, err error) {
	fields := FormatValidationError(err)
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation failed", "fields": fields})
}

// writeError maps service errors to responses. Unknown errors are logged
// and answered with a generic message.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrUnknownItem),
		errors.Is(err, services.ErrInvalidCheckout),
		errors.Is(err, services.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "service temporarily unavailable"})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error", "response": apology})
	}
}

func recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered", zap.String("path", c.Request.URL.Path), zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":  false,
			"error":    "Internal server error",
			"response": apology,
		})
	})
}
