package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"craneorders/internal/domain"
	"craneorders/internal/utils"
)

const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)

// Authenticator turns a bearer token into the current account.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (domain.Actor, error)
}

// RequireAuth rejects requests without a valid bearer token for an active
// account and stores the caller identity on the context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(raw) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		actor, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(raw))
		switch {
		case domain.IsUnauthorized(err):
			abort(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		case err != nil:
			utils.LogWarn(GetRequestID(c), "auth", "authenticate", err.Error())
			abort(c, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		c.Set(CtxUserID, actor.UserID)
		c.Set(CtxUserEmail, actor.Email)
		c.Set(CtxUserRole, actor.Role)
		c.Next()
	}
}

// ActorFrom returns the authenticated caller.
func ActorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID: c.GetString(CtxUserID),
		Email:  c.GetString(CtxUserEmail),
		Role:   c.GetString(CtxUserRole),
	}
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"message":    message,
		"request_id": GetRequestID(c),
	})
}
