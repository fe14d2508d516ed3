package router

import (
	"github.com/gestock/backend/internal/infrastructure/auth"
	"github.com/gestock/backend/internal/infrastructure/logger"
	"github.com/gestock/backend/internal/interfaces/http/handler"
	"github.com/gestock/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds everything the router needs to register routes
type Config struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist

	// CORS overrides the default CORS configuration when set
	CORS *middleware.CORSConfig

	SystemHandler          *handler.SystemHandler
	AuthHandler            *handler.AuthHandler
	UserHandler            *handler.UserHandler
	RoleHandler            *handler.RoleHandler
	ArticleHandler         *handler.ArticleHandler
	CategoryHandler        *handler.CategoryHandler
	StockDocumentHandler   *handler.StockDocumentHandler
	DistributionHandler    *handler.DistributionHandler
	MissionOrderHandler    *handler.MissionOrderHandler
	ReceptionReportHandler *handler.ReceptionReportHandler
	PaymentHandler         *handler.PaymentHandler
}

// New builds the gin engine with all middleware and routes registered
func New(cfg Config) *gin.Engine {
	engine := gin.New()

	if cfg.Logger != nil {
		engine.Use(logger.Recovery(cfg.Logger))
	} else {
		engine.Use(gin.Recovery())
	}
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Secure())
	if cfg.CORS != nil {
		engine.Use(middleware.CORSWithConfig(*cfg.CORS))
	} else {
		engine.Use(middleware.CORS())
	}
	if cfg.Logger != nil {
		engine.Use(logger.GinMiddleware(cfg.Logger))
	}

	// Unauthenticated health endpoints
	engine.GET("/health", cfg.SystemHandler.Health)
	engine.GET("/ready", cfg.SystemHandler.Ready)

	jwtConfig := middleware.DefaultJWTConfig(cfg.JWTService)
	jwtConfig.TokenBlacklist = cfg.TokenBlacklist
	jwtConfig.Logger = cfg.Logger

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	registerAuthRoutes(v1, cfg)
	registerIdentityRoutes(v1, cfg)
	registerCatalogRoutes(v1, cfg)
	registerStockRoutes(v1, cfg)
	registerOpsRoutes(v1, cfg)
	registerFinanceRoutes(v1, cfg)

	v1.GET("/system/stats", middleware.RequirePermission("system:admin"), cfg.SystemHandler.Stats)

	return engine
}

func registerAuthRoutes(v1 *gin.RouterGroup, cfg Config) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", cfg.AuthHandler.Login)
		authGroup.POST("/refresh", cfg.AuthHandler.Refresh)
		authGroup.POST("/logout", cfg.AuthHandler.Logout)
		authGroup.POST("/force-logout", middleware.RequirePermission("user:admin"), cfg.AuthHandler.ForceLogout)
		authGroup.GET("/me", cfg.AuthHandler.Me)
		authGroup.POST("/change-password", cfg.AuthHandler.ChangePassword)
	}
}

func registerIdentityRoutes(v1 *gin.RouterGroup, cfg Config) {
	users := v1.Group("/users", middleware.RequirePermission("user:admin"))
	{
		users.POST("", cfg.UserHandler.Create)
		users.GET("", cfg.UserHandler.List)
		users.GET("/:id", cfg.UserHandler.Get)
		users.PUT("/:id", cfg.UserHandler.Update)
		users.PUT("/:id/roles", cfg.UserHandler.SetRoles)
		users.POST("/:id/reset-password", cfg.UserHandler.ResetPassword)
		users.POST("/:id/activate", cfg.UserHandler.Activate)
		users.POST("/:id/deactivate", cfg.UserHandler.Deactivate)
		users.DELETE("/:id", cfg.UserHandler.Delete)
	}

	roles := v1.Group("/roles", middleware.RequirePermission("user:admin"))
	{
		roles.POST("", cfg.RoleHandler.Create)
		roles.GET("", cfg.RoleHandler.List)
		roles.GET("/:id", cfg.RoleHandler.Get)
		roles.PUT("/:id", cfg.RoleHandler.Update)
		roles.DELETE("/:id", cfg.RoleHandler.Delete)
	}
}

func registerCatalogRoutes(v1 *gin.RouterGroup, cfg Config) {
	articles := v1.Group("/articles")
	{
		articles.GET("", middleware.RequirePermission("article:read"), cfg.ArticleHandler.List)
		articles.GET("/low-stock", middleware.RequirePermission("article:read"), cfg.ArticleHandler.ListBelowMinimum)
		articles.GET("/:id", middleware.RequirePermission("article:read"), cfg.ArticleHandler.Get)
		articles.POST("", middleware.RequirePermission("article:write"), cfg.ArticleHandler.Create)
		articles.PUT("/:id", middleware.RequirePermission("article:write"), cfg.ArticleHandler.Update)
		articles.DELETE("/:id", middleware.RequirePermission("article:write"), cfg.ArticleHandler.Delete)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", middleware.RequirePermission("article:read"), cfg.CategoryHandler.List)
		categories.GET("/:id", middleware.RequirePermission("article:read"), cfg.CategoryHandler.Get)
		categories.POST("", middleware.RequirePermission("article:write"), cfg.CategoryHandler.Create)
		categories.PUT("/:id", middleware.RequirePermission("article:write"), cfg.CategoryHandler.Update)
		categories.DELETE("/:id", middleware.RequirePermission("article:write"), cfg.CategoryHandler.Delete)
	}
}

func registerStockRoutes(v1 *gin.RouterGroup, cfg Config) {
	documents := v1.Group("/documents")
	{
		documents.GET("", middleware.RequirePermission("document:read"), cfg.StockDocumentHandler.List)
		documents.GET("/:id", middleware.RequirePermission("document:read"), cfg.StockDocumentHandler.Get)
		documents.POST("", middleware.RequirePermission("document:write"), cfg.StockDocumentHandler.Create)
		documents.PUT("/:id", middleware.RequirePermission("document:write"), cfg.StockDocumentHandler.UpdateHeader)
		documents.PUT("/:id/lines", middleware.RequirePermission("document:write"), cfg.StockDocumentHandler.ReplaceLines)
		documents.DELETE("/:id", middleware.RequirePermission("document:write"), cfg.StockDocumentHandler.Delete)
		documents.GET("/:id/payments", middleware.RequirePermission("payment:read"), cfg.PaymentHandler.ListByDocument)
	}
}

func registerOpsRoutes(v1 *gin.RouterGroup, cfg Config) {
	distributions := v1.Group("/distributions")
	{
		distributions.GET("", middleware.RequirePermission("distribution:read"), cfg.DistributionHandler.List)
		distributions.GET("/:id", middleware.RequirePermission("distribution:read"), cfg.DistributionHandler.Get)
		distributions.POST("", middleware.RequirePermission("distribution:write"), cfg.DistributionHandler.Create)
		distributions.DELETE("/:id", middleware.RequirePermission("distribution:write"), cfg.DistributionHandler.Delete)
	}

	missionOrders := v1.Group("/mission-orders")
	{
		missionOrders.GET("", middleware.RequirePermission("mission_order:read"), cfg.MissionOrderHandler.List)
		missionOrders.GET("/:id", middleware.RequirePermission("mission_order:read"), cfg.MissionOrderHandler.Get)
		missionOrders.POST("", middleware.RequirePermission("mission_order:write"), cfg.MissionOrderHandler.Create)
		missionOrders.PUT("/:id", middleware.RequirePermission("mission_order:write"), cfg.MissionOrderHandler.Update)
		missionOrders.POST("/:id/approve", middleware.RequirePermission("mission_order:approve"), cfg.MissionOrderHandler.Approve)
		missionOrders.POST("/:id/close", middleware.RequirePermission("mission_order:write"), cfg.MissionOrderHandler.Close)
	}

	reports := v1.Group("/reception-reports")
	{
		reports.GET("", middleware.RequirePermission("reception_report:read"), cfg.ReceptionReportHandler.List)
		reports.GET("/:id", middleware.RequirePermission("reception_report:read"), cfg.ReceptionReportHandler.Get)
		reports.POST("", middleware.RequirePermission("reception_report:write"), cfg.ReceptionReportHandler.Create)
	}
}

func registerFinanceRoutes(v1 *gin.RouterGroup, cfg Config) {
	payments := v1.Group("/payments")
	{
		payments.GET("", middleware.RequirePermission("payment:read"), cfg.PaymentHandler.List)
		payments.GET("/:id", middleware.RequirePermission("payment:read"), cfg.PaymentHandler.Get)
		payments.POST("", middleware.RequirePermission("payment:write"), cfg.PaymentHandler.Create)
	}
}
