package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func stubDatabase(t *testing.T, enabled bool, status func(context.Context) (map[string]interface{}, error)) {
	t.Helper()
	savedEnabled, savedStatus := mongoEnabled, databaseStatus
	mongoEnabled = func() bool { return enabled }
	databaseStatus = status
	t.Cleanup(func() {
		mongoEnabled, databaseStatus = savedEnabled, savedStatus
	})
}

func serveDBStatus() *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/db-status", DBStatus)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/db-status", nil))
	return w
}

func TestDBStatusHidesFailureCause(t *testing.T) {
	stubDatabase(t, true, func(context.Context) (map[string]interface{}, error) {
		return nil, errors.New("auth failed for mongodb://admin:hunter2@db:27017")
	})

	w := serveDBStatus()

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"获取数据库状态失败"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestDBStatusReportsCounts(t *testing.T) {
	stubDatabase(t, true, func(context.Context) (map[string]interface{}, error) {
		return map[string]interface{}{"database": "supplier_kpi"}, nil
	})

	w := serveDBStatus()

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"database":"supplier_kpi"}`, w.Body.String())
}

func TestDBStatusDisabled(t *testing.T) {
	stubDatabase(t, false, nil)

	w := serveDBStatus()

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
