package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"craneorders/internal/domain"
	"craneorders/internal/http/middleware"
	"craneorders/internal/utils"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      message,
			"code":       code,
			"details":    details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, ErrorResponse{Error: message, Code: code, Details: details})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		_ = c.Error(err)
		utils.LogWarn(middleware.GetRequestID(c), "http", c.FullPath(), "internal error: "+err.Error())
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
