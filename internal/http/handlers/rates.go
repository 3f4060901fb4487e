package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"craneorders/internal/domain/models"
	"craneorders/internal/http/middleware"
	"craneorders/internal/repositories"
	"craneorders/internal/services"
)

func rateService(c *gin.Context) services.RateService {
	rid := middleware.GetRequestID(c)
	return services.RateService{Repo: repositories.RateRepository{}, Audit: auditService(rid), RequestID: rid}
}

// GET /api/rates
func GetRates(c *gin.Context) {
	rates, err := rateService(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

// GET /api/rates/:id
func GetRateByID(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	r, err := rateService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// POST /api/rates
func CreateRate(c *gin.Context) {
	var req models.RateInput
	if !BindJSONOrError(c, &req) {
		return
	}
	r, err := rateService(c).Create(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// PUT /api/rates/:id
func UpdateRate(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req services.RatePatch
	if !BindJSONOrError(c, &req) {
		return
	}
	r, err := rateService(c).Update(c.Request.Context(), id, req, middleware.ActorFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DELETE /api/rates/:id
func DeleteRate(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := rateService(c).Delete(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rate deleted"})
}
