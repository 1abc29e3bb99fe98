package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-compare/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthCheck(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Version: "1.2.3"}}
	h := NewHandler(cfg, fakePinger{}, func() map[string]interface{} {
		return map[string]interface{}{"model": "fake"}
	})

	w := serve(h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, w.Body.String(), `"model":"fake"`)
}

func TestReadinessCheck(t *testing.T) {
	cfg := &config.Config{}

	w := serve(NewHandler(cfg, fakePinger{}, nil), "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")

	w = serve(NewHandler(cfg, fakePinger{err: errors.New("connection refused")}, nil), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
}

func TestLivenessCheck(t *testing.T) {
	w := serve(NewHandler(&config.Config{}, fakePinger{}, nil), "/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alive")
}
