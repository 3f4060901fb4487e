package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"craneorders/internal/http/middleware"
	"craneorders/internal/repositories"
	"craneorders/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := AuthService(middleware.GetRequestID(c))
	res, err := svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/auth/me
func Me(c *gin.Context) {
	svc := AuthService(middleware.GetRequestID(c))
	u, err := svc.Me(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// POST /api/auth/logout
func Logout(c *gin.Context) {
	svc := AuthService(middleware.GetRequestID(c))
	svc.Logout(c.Request.Context(), middleware.ActorFrom(c))
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// POST /api/auth/register creates an account on behalf of an admin.
func Register(c *gin.Context) {
	var req services.CreateUserInput
	if !BindJSONOrError(c, &req) {
		return
	}
	rid := middleware.GetRequestID(c)
	svc := services.UserService{Repo: repositories.UserRepository{}, Audit: auditService(rid), RequestID: rid}
	u, err := svc.Create(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}
