package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"craneorders/internal/domain/models"
	"craneorders/internal/http/middleware"
	"craneorders/internal/repositories"
	"craneorders/internal/services"
)

func orderService(c *gin.Context) services.OrderService {
	rid := middleware.GetRequestID(c)
	return services.OrderService{Repo: repositories.OrderRepository{}, Audit: auditService(rid), RequestID: rid}
}

func reportService(c *gin.Context) services.ReportService {
	return services.ReportService{RequestID: middleware.GetRequestID(c)}
}

// orderFilter reads order_type, customer_name, phone, limit and skip.
func orderFilter(c *gin.Context, defLimit int) (repositories.OrderFilter, bool) {
	f := repositories.OrderFilter{
		CustomerName: strings.TrimSpace(c.Query("customer_name")),
		Phone:        strings.TrimSpace(c.Query("phone")),
	}
	if raw := strings.TrimSpace(c.Query("order_type")); raw != "" {
		t, ok := models.ParseOrderType(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "validation_error", "order_type must be cash or company", nil)
			return f, false
		}
		f.OrderType = t
	}
	var ok bool
	if f.Limit, ok = queryInt(c, "limit", defLimit); !ok {
		return f, false
	}
	if f.Skip, ok = queryInt(c, "skip", 0); !ok {
		return f, false
	}
	return f, true
}

// POST /api/orders
func CreateOrder(c *gin.Context) {
	var req services.OrderPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	o, err := orderService(c).Create(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// GET /api/orders
func GetOrders(c *gin.Context) {
	f, ok := orderFilter(c, 100)
	if !ok {
		return
	}
	orders, err := orderService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /api/orders/:id
func GetOrderByID(c *gin.Context) {
	o, err := orderService(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// PUT /api/orders/:id
func UpdateOrder(c *gin.Context) {
	var req services.OrderPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	o, err := orderService(c).Update(c.Request.Context(), c.Param("id"), req, middleware.ActorFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// DELETE /api/orders/:id
func DeleteOrder(c *gin.Context) {
	if err := orderService(c).Delete(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

type incentiveRequest struct {
	IncentiveAmount *float64 `json:"incentive_amount"`
	Reason          string   `json:"reason"`
}

// PUT /api/orders/:id/incentive
func SetOrderIncentive(c *gin.Context) {
	var req incentiveRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.IncentiveAmount == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "incentive_amount is required", nil)
		return
	}
	o, err := orderService(c).SetIncentive(c.Request.Context(), c.Param("id"), *req.IncentiveAmount, req.Reason, middleware.ActorFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// GET /api/orders/stats/summary
func GetOrderStats(c *gin.Context) {
	stats, err := reportService(c).Summary(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/orders/:id/financials
func GetOrderFinancials(c *gin.Context) {
	fin, err := reportService(c).OrderFinancials(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, fin)
}

// GET /api/drivers
func GetDrivers(c *gin.Context) {
	drivers, err := reportService(c).Drivers(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}
