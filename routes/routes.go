package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/33kotidham/admin-gateway/config"
	"github.com/33kotidham/admin-gateway/database"
	"github.com/33kotidham/admin-gateway/internal/auditlog"
	"github.com/33kotidham/admin-gateway/internal/auth"
	"github.com/33kotidham/admin-gateway/internal/booking"
	"github.com/33kotidham/admin-gateway/internal/chadawa"
	"github.com/33kotidham/admin-gateway/internal/plan"
	"github.com/33kotidham/admin-gateway/internal/product"
	"github.com/33kotidham/admin-gateway/internal/puja"
	"github.com/33kotidham/admin-gateway/internal/reports"
	"github.com/33kotidham/admin-gateway/internal/staging"
	"github.com/33kotidham/admin-gateway/internal/temple"
	"github.com/33kotidham/admin-gateway/internal/upstream"
	"github.com/33kotidham/admin-gateway/middleware"
)

// Setup wires every repository, service and handler onto the router and
// returns the audit service for the Kafka consumer in main.
func Setup(r *gin.Engine, cfg *config.Config, api *upstream.Client, area *staging.Area) auditlog.Service {
	images := upstream.NewImageResolver(cfg.ImageOrigin)

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	if err := authSvc.SeedDefaultAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error().Err(err).Msg("failed to seed default admin")
	}

	// ========== Entity services ==========
	chadawaSvc := chadawa.NewService(api, images, auditSvc)
	chadawaHandler := chadawa.NewHandler(chadawaSvc, area)

	planSvc := plan.NewService(api, images, auditSvc)
	planHandler := plan.NewHandler(planSvc, area)

	productSvc := product.NewService(api, images, auditSvc)
	categorySvc := product.NewCategoryService(api, auditSvc)
	productHandler := product.NewHandler(productSvc, categorySvc, area)

	pujaSvc := puja.NewService(api, images, auditSvc)
	pujaHandler := puja.NewHandler(pujaSvc, area)

	templeSvc := temple.NewService(api, images, auditSvc)
	templeHandler := temple.NewHandler(templeSvc, area)

	bookingSvc := booking.NewService(api, images, auditSvc)
	bookingHandler := booking.NewHandler(bookingSvc)

	reportSvc := reports.NewService(bookingSvc, pujaSvc, auditSvc)
	reportHandler := reports.NewHandler(reportSvc)

	// ========== Health ==========
	r.GET("/healthz", func(c *gin.Context) {
		upstreamOK := api.Ping(c.Request.Context()) == nil
		cacheAge := func(t time.Time) string {
			if t.IsZero() {
				return "never"
			}
			return time.Since(t).Round(time.Second).String()
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "OK",
			"upstream_ok": upstreamOK,
			"cache_ages": gin.H{
				"chadawas": cacheAge(chadawaSvc.Cache().RefreshedAt()),
				"plans":    cacheAge(planSvc.Cache().RefreshedAt()),
				"products": cacheAge(productSvc.Cache().RefreshedAt()),
				"pujas":    cacheAge(pujaSvc.Cache().RefreshedAt()),
				"temples":  cacheAge(templeSvc.Cache().RefreshedAt()),
				"bookings": cacheAge(bookingSvc.Cache().RefreshedAt()),
			},
		})
	})

	apiGroup := r.Group("/api/v1")
	apiGroup.Use(middleware.RateLimiter())
	apiGroup.Use(middleware.AuditMiddleware())

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/me", middleware.AuthMiddleware(cfg, authSvc), authHandler.Me)
		authGroup.POST("/logout", middleware.AuthMiddleware(cfg, authSvc), authHandler.Logout)
	}

	protected := apiGroup.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	chadawaRoutes := protected.Group("/chadawas")
	{
		chadawaRoutes.GET("", chadawaHandler.GetChadawas)
		chadawaRoutes.GET("/:id", chadawaHandler.GetChadawaByID)
		chadawaRoutes.POST("", chadawaHandler.CreateChadawa)
		chadawaRoutes.PUT("/:id", chadawaHandler.UpdateChadawa)
		chadawaRoutes.DELETE("/:id", chadawaHandler.DeleteChadawa)
	}

	planRoutes := protected.Group("/plans")
	{
		planRoutes.GET("", planHandler.GetPlans)
		planRoutes.GET("/:id", planHandler.GetPlanByID)
		planRoutes.POST("", planHandler.CreatePlan)
		planRoutes.PUT("/:id", planHandler.UpdatePlan)
		planRoutes.DELETE("/:id", planHandler.DeletePlan)
	}

	productRoutes := protected.Group("/products")
	{
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.PUT("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", productHandler.DeleteProduct)
	}

	categoryRoutes := protected.Group("/product-categories")
	{
		categoryRoutes.GET("", productHandler.GetCategories)
		categoryRoutes.POST("", productHandler.CreateCategory)
	}

	pujaRoutes := protected.Group("/pujas")
	{
		pujaRoutes.GET("", pujaHandler.GetPujas)
		pujaRoutes.GET("/:id", pujaHandler.GetPujaByID)
		pujaRoutes.POST("", pujaHandler.CreatePuja)
		pujaRoutes.PUT("/:id", pujaHandler.UpdatePuja)
		pujaRoutes.DELETE("/:id", pujaHandler.DeletePuja)
	}

	templeRoutes := protected.Group("/temples")
	{
		templeRoutes.GET("", templeHandler.GetTemples)
		templeRoutes.GET("/:id", templeHandler.GetTempleByID)
		templeRoutes.POST("", templeHandler.CreateTemple)
		templeRoutes.PUT("/:id", templeHandler.UpdateTemple)
		templeRoutes.DELETE("/:id", templeHandler.DeleteTemple)
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.GET("", bookingHandler.GetBookings)
		bookingRoutes.GET("/counts", bookingHandler.GetBookingCounts)
		bookingRoutes.GET("/:id", bookingHandler.GetBookingByID)
		bookingRoutes.PUT("/:id/status", bookingHandler.UpdateBookingStatus)
	}

	auditRoutes := protected.Group("/audit-logs")
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
		auditRoutes.GET("/stats", auditHandler.GetStats)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	reportRoutes := protected.Group("/reports")
	{
		reportRoutes.GET("/:type", reportHandler.Download)
	}

	return auditSvc
}
