package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tokenTable authenticates tokens of the form "tok-<role>"; "tok-broken"
// simulates a storage failure.
type tokenTable map[string]domain.Actor

func (tt tokenTable) Authenticate(_ context.Context, raw string) (domain.Actor, error) {
	if raw == "tok-broken" {
		return domain.Actor{}, domain.InternalError{Msg: "could not load account", Err: errors.New("dial tcp: refused")}
	}
	a, ok := tt[raw]
	if !ok {
		return domain.Actor{}, domain.UnauthorizedError{Msg: "invalid or expired token"}
	}
	return a, nil
}

var testAuth = tokenTable{
	"tok-data_entry":  {UserID: "u1", Email: "u1@cranes.local", Role: string(models.RoleDataEntry)},
	"tok-admin":       {UserID: "u2", Email: "u2@cranes.local", Role: string(models.RoleAdmin)},
	"tok-super_admin": {UserID: "u3", Email: "u3@cranes.local", Role: string(models.RoleSuperAdmin)},
}

func bearer(_ *testing.T, role models.Role) string {
	return "Bearer tok-" + string(role)
}

func securedEngine() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", RequireAuth(testAuth), func(c *gin.Context) {
		c.JSON(http.StatusOK, ActorFrom(c))
	})
	r.DELETE("/orders/:id", RequireAuth(testAuth), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := do(r, http.MethodGet, "/", "")
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRequireAuth(t *testing.T) {
	r := securedEngine()

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "Bearer nonsense").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "Basic dTE6cHc=").Code)

	w := do(r, http.MethodGet, "/me", bearer(t, models.RoleDataEntry))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"data_entry"`)

	w = do(r, http.MethodGet, "/me", "Bearer tok-broken")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "dial tcp")
}

func TestRequireAdmin(t *testing.T) {
	r := securedEngine()

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/orders/1", bearer(t, models.RoleDataEntry)).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/orders/1", bearer(t, models.RoleAdmin)).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/orders/1", bearer(t, models.RoleSuperAdmin)).Code)
}

func TestRequireRolesWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireRoles("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsAndLoggerPassThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(), Metrics())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/missing", "").Code)
}
