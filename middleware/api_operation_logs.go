package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/supplier_kpi/models"
	"github.com/BerniceZTT/supplier_kpi/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// SaveLogFunc 操作日志的持久化函数
type SaveLogFunc func(ctx context.Context, log *models.OperationLog) error

// 需要记录的HTTP方法
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// OperationLoggerMiddleware 操作日志记录中间件
// 只记录请求元数据与上传摘要，不保存工作簿内容
func OperationLoggerMiddleware(save SaveLogFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if save == nil || !loggedMethods[c.Request.Method] {
			c.Next()
			return
		}

		startTime := time.Now()

		c.Next()

		operatorID, operatorName, operatorType := extractUserInfo(c)

		operationLog := models.OperationLog{
			RequestID:     c.GetString(RequestIDKey),
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			OperatorID:    operatorID,
			OperatorName:  operatorName,
			OperatorType:  operatorType,
			RequestHeader: sanitizeHeaders(c.Request.Header),
			StatusCode:    c.Writer.Status(),
			Success:       c.Writer.Status() < http.StatusBadRequest,
			OperationTime: startTime,
			ResponseTime:  time.Since(startTime).Milliseconds(),
			IPAddress:     c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
		}
		if audit, ok := c.Get(models.UploadAuditKey); ok {
			if upload, ok := audit.(*models.UploadAudit); ok {
				operationLog.Upload = upload
			}
		}
		if len(c.Errors) > 0 {
			operationLog.ErrorMessage = c.Errors.String()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := save(ctx, &operationLog); err != nil {
			utils.Logger.Error().Err(err).Msg("保存操作日志失败")
		}
	}
}

// extractUserInfo 从上下文中提取用户信息
func extractUserInfo(c *gin.Context) (string, string, string) {
	if value, exists := c.Get(UserKey); exists {
		if claims, ok := value.(jwt.MapClaims); ok {
			return utils.ClaimString(claims, "id"), utils.ClaimString(claims, "username"), utils.ClaimString(claims, "role")
		}
	}
	return "anonymous", "anonymous", "UNKNOWN"
}

// sanitizeHeaders 清理请求头中的敏感信息
func sanitizeHeaders(headers http.Header) map[string]interface{} {
	sanitized := make(map[string]interface{})
	for k, v := range headers {
		switch strings.ToLower(k) {
		case "authorization":
			if len(v) > 0 {
				auth := v[0]
				if len(auth) > 15 {
					sanitized[k] = auth[:15] + "..."
				} else {
					sanitized[k] = auth
				}
			}
		case "cookie", "x-api-key":
			sanitized[k] = "******"
		default:
			sanitized[k] = v
		}
	}
	return sanitized
}
