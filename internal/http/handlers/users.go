package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"craneorders/internal/http/middleware"
	"craneorders/internal/repositories"
	"craneorders/internal/services"
)

func userService(c *gin.Context) services.UserService {
	rid := middleware.GetRequestID(c)
	return services.UserService{Repo: repositories.UserRepository{}, Audit: auditService(rid), RequestID: rid}
}

// GET /api/users
func GetUsers(c *gin.Context) {
	users, err := userService(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	u, err := userService(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// POST /api/users
func CreateUser(c *gin.Context) {
	var req services.CreateUserInput
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := userService(c).Create(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	var req services.UpdateUserInput
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := userService(c).Update(c.Request.Context(), c.Param("id"), req, middleware.ActorFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	if err := userService(c).Delete(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
