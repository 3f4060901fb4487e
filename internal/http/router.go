package api

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	intconfig "craneorders/internal/config"
	h "craneorders/internal/http/handlers"
	"craneorders/internal/http/middleware"
	"craneorders/internal/utils"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.Configure(h.Settings{
		JWTSecret:         []byte(env.JWTSecret),
		JWTTTL:            time.Duration(env.JWTTTLHours) * time.Hour,
		ImportStrictDates: env.ImportStrictDates,
		ImportMaxErrors:   env.ImportMaxErrors,
	})

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins), middleware.Metrics())

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.L().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authn := middleware.RequireAuth(h.AuthService(""))
	admin := middleware.RequireAdmin()

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.GET("/me", authn, h.Me)
		auth.POST("/logout", authn, h.Logout)
		auth.POST("/register", authn, admin, h.Register)

		secured := api.Group("", authn)
		mountOrders(secured, admin)

		adminOnly := api.Group("", authn, admin)
		mountUsers(adminOnly.Group("/users"))
		mountRates(adminOnly.Group("/rates"))
		mountReports(adminOnly.Group("/reports"))

		imp := adminOnly.Group("/import")
		imp.POST("/orders", h.ImportOrders)
		imp.GET("/history", h.GetImportHistory)

		exp := adminOnly.Group("/export")
		exp.GET("/excel", h.ExportOrdersExcel)
		exp.GET("/pdf", h.ExportOrdersPDF)

		adminOnly.GET("/audit-logs", h.GetAuditLogs)
	}

	h.SetRouter(r)
	return r
}

func mountOrders(g *gin.RouterGroup, admin gin.HandlerFunc) {
	orders := g.Group("/orders")
	orders.POST("", h.CreateOrder)
	orders.GET("", h.GetOrders)
	orders.GET("/stats/summary", h.GetOrderStats)
	orders.GET("/:id", h.GetOrderByID)
	orders.GET("/:id/financials", h.GetOrderFinancials)
	orders.PUT("/:id", h.UpdateOrder)
	orders.DELETE("/:id", admin, h.DeleteOrder)
	orders.PUT("/:id/incentive", admin, h.SetOrderIncentive)

	g.GET("/drivers", h.GetDrivers)
}

func mountUsers(g *gin.RouterGroup) {
	g.GET("", h.GetUsers)
	g.GET("/:id", h.GetUserByID)
	g.POST("", h.CreateUser)
	g.PUT("/:id", h.UpdateUser)
	g.DELETE("/:id", h.DeleteUser)
}

func mountRates(g *gin.RouterGroup) {
	g.GET("", h.GetRates)
	g.GET("/:id", h.GetRateByID)
	g.POST("", h.CreateRate)
	g.PUT("/:id", h.UpdateRate)
	g.DELETE("/:id", h.DeleteRate)
}

func mountReports(g *gin.RouterGroup) {
	g.GET("/custom", h.GetCustomReport)
	g.GET("/expense-by-driver", h.GetExpenseByDriver)
	g.GET("/revenue-by-vehicle", h.GetRevenueByVehicle)
	g.GET("/revenue-by-vehicle-type", h.GetRevenueByVehicleType)
}
