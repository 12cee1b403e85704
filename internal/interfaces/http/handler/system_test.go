package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopapi/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newSystemRouter(checks map[string]Pinger) *gin.Engine {
	h := NewSystemHandler("shop-api", "1.2.3", checks)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/system/info", h.GetSystemInfo)
	r.GET("/system/ping", h.Ping)
	return r
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	w := testutil.DoJSON(t, newSystemRouter(nil), http.MethodGet, "/system/info", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	info, _ := testutil.DecodeResponse[SystemInfoResponse](t, w)
	assert.Equal(t, "shop-api", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestSystemHandler_Ping(t *testing.T) {
	w := testutil.DoJSON(t, newSystemRouter(nil), http.MethodGet, "/system/ping", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data, _ := testutil.DecodeResponse[map[string]string](t, w)
	assert.Equal(t, "pong", data["message"])
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := newSystemRouter(map[string]Pinger{"database": stubPinger{}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		health, resp := testutil.DecodeResponse[HealthResponse](t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, "healthy", health.Checks["database"])
	})

	t.Run("database down", func(t *testing.T) {
		router := newSystemRouter(map[string]Pinger{
			"database": stubPinger{err: errors.New("connection refused")},
			"redis":    stubPinger{},
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		health, resp := testutil.DecodeResponse[HealthResponse](t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "unhealthy", health.Status)
		assert.Equal(t, "unhealthy", health.Checks["database"])
		assert.Equal(t, "healthy", health.Checks["redis"])
	})
}
