package routes

import (
	"github.com/BerniceZTT/supplier_kpi/config"
	"github.com/BerniceZTT/supplier_kpi/controllers"
	"github.com/BerniceZTT/supplier_kpi/middleware"

	"github.com/gin-gonic/gin"
)

// NewEngine 创建Gin实例并挂载全局中间件与路由
// save 为 nil 时不记录操作日志
func NewEngine(cfg *config.Config, save middleware.SaveLogFunc) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.MaxUploadBytes()))
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.AllowOrigins))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLoggerMiddleware(save))

	RegisterRoutes(router, cfg)
	return router
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, cfg *config.Config) {
	RegisterWorkbookRoutes(router, cfg)

	// 健康检查路由
	router.GET("/health", controllers.Health)
	router.GET("/api/health", controllers.APIHealth)

	// 数据库状态检查路由
	router.GET("/api/db-status", controllers.DBStatus)
}
