package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/supplier_kpi/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey 请求ID在 gin.Context 中的键
const RequestIDKey = "requestId"

// bodyLogWriter 用于记录响应内容
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 实现 ResponseWriter 接口
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// prefixedBody 已部分读取的请求体
type prefixedBody struct {
	io.Reader
	io.Closer
}

// RequestID 为每个请求分配ID，客户端传入的 X-Request-Id 优先
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// maxLoggedRequestBody 请求体只记录前缀
const maxLoggedRequestBody = 2048

// Logger 日志中间件，maxBodyBytes > 0 时限制请求体大小
func Logger(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// 记录请求头
		headers := make(map[string]string)
		for k, v := range c.Request.Header {
			if len(v) > 0 {
				headers[k] = v[0]
			}
		}

		if c.Request.Body != nil && maxBodyBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		}

		// 上传的工作簿是二进制内容，只记录大小
		var requestBody interface{}
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			requestBody = map[string]int64{"contentLength": c.Request.ContentLength}
		} else if c.Request.Body != nil {
			prefix, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxLoggedRequestBody))
			// 已读取的前缀拼回请求体，其余部分留给后续处理
			c.Request.Body = prefixedBody{
				Reader: io.MultiReader(bytes.NewReader(prefix), c.Request.Body),
				Closer: c.Request.Body,
			}
			requestBody = string(prefix)
		}

		// 创建响应体捕获器
		blw := &bodyLogWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBufferString(""),
		}
		c.Writer = blw

		utils.LogApiRequest(method, path, c.Request.URL.Query(), requestBody, headers)

		c.Next()

		utils.LogApiResponse(method, path, c.Writer.Status(), time.Since(start), blw.body.String())
	}
}

// Recovery 恢复中间件
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		// 记录崩溃信息
		utils.Logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("服务崩溃")

		c.AbortWithStatusJSON(500, gin.H{
			"error": "Processing error",
		})
	})
}
