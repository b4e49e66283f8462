package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/supplier_kpi/repository"
	"github.com/BerniceZTT/supplier_kpi/utils"
)

// Health 兼容旧前端的健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// APIHealth 健康检查
func APIHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// 数据库状态来源，测试中可替换
var (
	mongoEnabled   = repository.Enabled
	databaseStatus = repository.GetDatabaseStatus
)

// DBStatus 操作日志库状态，失败原因只写入日志
func DBStatus(c *gin.Context) {
	if !mongoEnabled() {
		utils.ErrorResponse(c, "MongoDB not configured", http.StatusServiceUnavailable)
		return
	}
	status, err := databaseStatus(c.Request.Context())
	if err != nil {
		utils.LogError(err, map[string]interface{}{"path": c.Request.URL.Path}, "获取数据库状态失败")
		utils.ErrorResponse(c, "获取数据库状态失败", http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, status)
}
