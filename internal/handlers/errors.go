package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"cultivation-service/internal/phase"
	"cultivation-service/internal/repository"
	"cultivation-service/internal/services"
	"cultivation-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// MapErrorToHTTPStatus picks the API error code and status for a service error.
func MapErrorToHTTPStatus(err error) (string, int) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "NOT_FOUND", http.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		return "CONFLICT", http.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		return "FORBIDDEN", http.StatusForbidden
	case errors.Is(err, services.ErrBadRequest), errors.Is(err, phase.ErrInvalidPlantType):
		return "BAD_REQUEST", http.StatusBadRequest
	case errors.Is(err, services.ErrAIUnavailable), errors.Is(err, services.ErrStorageUnavailable):
		return "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT", http.StatusGatewayTimeout
	}
	return "INTERNAL_ERROR", http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	code, status := MapErrorToHTTPStatus(err)
	message := err.Error()

	switch status {
	case http.StatusInternalServerError:
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		message = "internal server error"
	case http.StatusServiceUnavailable:
		slog.Warn("Dependency unavailable", "path", c.FullPath(), "error", err)
		if errors.Is(err, services.ErrAIUnavailable) {
			message = services.ErrAIUnavailable.Error()
		} else {
			message = services.ErrStorageUnavailable.Error()
		}
	}
	c.JSON(status, utils.CreateErrorResponse(code, message))
}

// bindJSON decodes and validates the body. On failure it writes the 400 (or
// 413 for a body cut off by BodySizeLimit) response and returns false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, utils.CreateErrorResponse("PAYLOAD_TOO_LARGE",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
			return false
		}
		c.JSON(http.StatusBadRequest, utils.CreateValidationErrorResponse("invalid request body", utils.ValidationErrors(err)))
		return false
	}
	return true
}
