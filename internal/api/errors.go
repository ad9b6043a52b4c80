package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/foodbridge-api/pkg/errors"
)

// statusFor maps an error to its HTTP status code
func statusFor(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout
	}

	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": message}. Internal details stay in the log.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := apperrors.MessageOf(err)
	if status == http.StatusRequestTimeout {
		message = "request cancelled"
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

// bindJSON decodes the body into dst. An empty body is allowed when optional is true.
func bindJSON(c *gin.Context, dst any, optional bool) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
