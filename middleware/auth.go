package middleware

import (
	"net/http"
	"strings"

	"github.com/BerniceZTT/supplier_kpi/utils"

	"github.com/gin-gonic/gin"
)

// UserKey 认证通过后 claims 在 gin.Context 中的键
const UserKey = "user"

// AuthMiddleware 认证中间件，required 为 false 时直接放行
func AuthMiddleware(required bool, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !required {
			c.Next()
			return
		}

		// 检查Authorization头
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || token == authHeader || token == "" {
			utils.Logger.Info().Str("path", c.Request.URL.Path).Msg("缺少Authorization头或格式错误")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
				"code":  "MISSING_TOKEN",
			})
			return
		}

		// 解析token
		claims, err := utils.ParseToken(token, secret)
		if err != nil {
			utils.Logger.Warn().Err(err).Msg("Token验证失败")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
				"code":  "INVALID_TOKEN",
			})
			return
		}

		// 将用户信息存储到上下文
		c.Set(UserKey, claims)
		utils.Logger.Debug().
			Str("username", utils.ClaimString(claims, "username")).
			Str("role", utils.ClaimString(claims, "role")).
			Msg("验证成功")

		c.Next()
	}
}
