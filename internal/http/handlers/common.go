package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"craneorders/internal/http/middleware"
	"craneorders/internal/repositories"
	"craneorders/internal/services"
)

// Settings carries the process configuration the handlers need.
type Settings struct {
	JWTSecret         []byte
	JWTTTL            time.Duration
	ImportStrictDates bool
	ImportMaxErrors   int
}

var (
	settingsMu sync.RWMutex
	settings   = Settings{ImportStrictDates: true}
)

// Configure installs s for all handlers. Called once by the router.
func Configure(s Settings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = s
}

func currentSettings() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// AuthService builds the auth service for the current settings.
func AuthService(requestID string) services.AuthService {
	s := currentSettings()
	return services.AuthService{
		Audit:     auditService(requestID),
		Secret:    s.JWTSecret,
		TTL:       s.JWTTTL,
		RequestID: requestID,
	}
}

func auditService(requestID string) services.AuditService {
	return services.AuditService{Repo: repositories.AuditRepository{}, RequestID: requestID}
}

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"error":      message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["details"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// queryInt reads an optional integer query value; def is used when absent.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", key+" must be an integer", nil)
		return 0, false
	}
	return n, true
}

func queryBool(c *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return b
}

func paramInt64(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", key+" must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

// sendFile writes an export with a download disposition.
func sendFile(c *gin.Context, data []byte, contentType, filename string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
