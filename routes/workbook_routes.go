package routes

import (
	"github.com/BerniceZTT/supplier_kpi/config"
	"github.com/BerniceZTT/supplier_kpi/controllers"
	"github.com/BerniceZTT/supplier_kpi/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterWorkbookRoutes 注册工作簿上传与导出路由
func RegisterWorkbookRoutes(router *gin.Engine, cfg *config.Config) {
	workbookController := controllers.NewWorkbookController(cfg)
	auth := middleware.AuthMiddleware(cfg.AuthRequired, []byte(cfg.JWTKey))

	// 旧前端直接调用 /upload
	router.POST("/upload", auth, workbookController.Upload)

	apiRoutes := router.Group("/api")
	apiRoutes.Use(auth)
	{
		apiRoutes.POST("/upload", workbookController.Upload)
		apiRoutes.POST("/sheets", workbookController.ListSheets)
		apiRoutes.POST("/export", workbookController.Export)
	}
}
