package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"food-compare/internal/infrastructure/config"
	"food-compare/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const readyTimeout = 2 * time.Second

// Pinger 可檢查連線的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	AI        map[string]interface{} `json:"ai,omitempty"`
}

// Handler 健康檢查處理器
type Handler struct {
	config   *config.Config
	catalog  Pinger
	aiStatus func() map[string]interface{}
}

// NewHandler 創建健康檢查處理器，aiStatus 可為 nil
func NewHandler(cfg *config.Config, catalog Pinger, aiStatus func() map[string]interface{}) *Handler {
	return &Handler{
		config:   cfg,
		catalog:  catalog,
		aiStatus: aiStatus,
	}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.aiStatus != nil {
		response.AI = h.aiStatus()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：食物目錄必須可連線
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := h.catalog.Ping(ctx); err != nil {
		common.LogWarn("Catalog not ready", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"catalog": "unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"catalog": "ok",
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
