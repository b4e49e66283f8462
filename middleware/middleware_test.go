package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/supplier_kpi/models"
	"github.com/BerniceZTT/supplier_kpi/utils"
)

var testSecret = []byte("middleware-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddlewareOptional(t *testing.T) {
	router := gin.New()
	router.POST("/api/upload", AuthMiddleware(false, testSecret), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/upload", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthMiddlewareRequired(t *testing.T) {
	router := gin.New()
	router.POST("/api/upload", AuthMiddleware(true, testSecret), func(c *gin.Context) {
		claims, ok := c.Get(UserKey)
		require.True(t, ok)
		c.String(http.StatusOK, utils.ClaimString(claims.(jwt.MapClaims), "username"))
	})

	token, err := utils.GenerateToken("u1", "analyst", "viewer", testSecret, time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"no bearer prefix", token, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"bad token", "Bearer not-a-token", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"valid", "Bearer " + token, http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.code != "" {
				assert.Contains(t, w.Body.String(), tc.code)
			} else {
				assert.Equal(t, "analyst", w.Body.String())
			}
		})
	}
}

func TestOperationLoggerRecordsUploads(t *testing.T) {
	var saved []*models.OperationLog
	save := func(_ context.Context, log *models.OperationLog) error {
		saved = append(saved, log)
		return nil
	}

	router := gin.New()
	router.Use(RequestID(), OperationLoggerMiddleware(save))
	router.POST("/api/upload", func(c *gin.Context) {
		c.Set(models.UploadAuditKey, &models.UploadAudit{FileName: "kpi.xlsx", TotalSuppliers: 4})
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.POST("/api/sheets", func(c *gin.Context) {
		_ = c.Error(errors.New("bad workbook"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Processing error"})
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	req.Header.Set("X-Request-Id", "req-1")
	req.Header.Set("Authorization", "Bearer abcdefghijklmnop")
	router.ServeHTTP(httptest.NewRecorder(), req)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/sheets", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Len(t, saved, 2)

	first := saved[0]
	assert.Equal(t, "req-1", first.RequestID)
	assert.Equal(t, "/api/upload", first.Path)
	assert.True(t, first.Success)
	require.NotNil(t, first.Upload)
	assert.Equal(t, "kpi.xlsx", first.Upload.FileName)
	assert.Equal(t, 4, first.Upload.TotalSuppliers)
	assert.Equal(t, "Bearer abcdefgh...", first.RequestHeader["Authorization"])
	assert.Equal(t, "anonymous", first.OperatorName)

	second := saved[1]
	assert.False(t, second.Success)
	assert.Equal(t, http.StatusInternalServerError, second.StatusCode)
	assert.Contains(t, second.ErrorMessage, "bad workbook")
	assert.Nil(t, second.Upload)
}

func TestOperationLoggerDisabled(t *testing.T) {
	router := gin.New()
	router.Use(OperationLoggerMiddleware(nil))
	router.POST("/upload", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSReflectsAnyOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS(nil))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://dashboard.local", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedOrigins(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://allowed.local"}))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://other.local")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestIDGenerated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-Id"))
}

func TestRecoveryHidesPanic(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.POST("/upload", func(c *gin.Context) { panic("nil map") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Processing error"}`, w.Body.String())
}

func TestErrorHandlerRendersUnwrittenErrors(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.POST("/upload", func(c *gin.Context) {
		_ = c.Error(utils.CreateBadRequestError("No file uploaded"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file uploaded")
}

func TestLoggerKeepsFullBodyForHandler(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 3*maxLoggedRequestBody)

	router := gin.New()
	router.Use(Logger(0))
	router.POST("/api/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		c.String(http.StatusOK, "%d", len(body))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/echo", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6144", w.Body.String())
}

func TestLoggerLimitsRequestBody(t *testing.T) {
	router := gin.New()
	router.Use(Logger(4096))
	router.POST("/api/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		assert.True(t, errors.As(err, &tooLarge))
		c.Status(http.StatusRequestEntityTooLarge)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/echo", bytes.NewReader(make([]byte, 10000)))
	req.Header.Set("Content-Type", "application/octet-stream")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
