package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"craneorders/internal/domain/models"
	"craneorders/internal/http/middleware"
)

// GET /api/audit-logs?action=&resource_type=&user_email=&limit=
func GetAuditLogs(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	f := models.AuditFilter{
		Action:       strings.TrimSpace(c.Query("action")),
		ResourceType: strings.TrimSpace(c.Query("resource_type")),
		UserEmail:    strings.TrimSpace(c.Query("user_email")),
		Limit:        limit,
	}
	logs, err := auditService(middleware.GetRequestID(c)).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
