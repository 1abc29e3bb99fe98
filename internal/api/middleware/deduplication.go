package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"food-compare/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultDedupWindow = time.Second

// Deduplicator 記錄最近的 POST 請求指紋
type Deduplicator struct {
	window    time.Duration
	clock     func() time.Time
	mu        sync.Mutex
	requests  map[string]time.Time
	lastPrune time.Time
}

// NewDeduplicator 創建去重器
func NewDeduplicator(window time.Duration, clock func() time.Time) *Deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	if clock == nil {
		clock = time.Now
	}
	return &Deduplicator{
		window:   window,
		clock:    clock,
		requests: make(map[string]time.Time),
	}
}

// Seen 檢查指紋是否在視窗內出現過，並記錄本次時間
func (d *Deduplicator) Seen(fingerprint string) bool {
	now := d.clock()
	d.mu.Lock()
	defer d.mu.Unlock()

	// 每 10 個視窗清理一次過期指紋
	if now.Sub(d.lastPrune) > 10*d.window {
		for k, t := range d.requests {
			if now.Sub(t) > d.window {
				delete(d.requests, k)
			}
		}
		d.lastPrune = now
	}

	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Deduplication 請求去重中間件：相同客戶端在視窗內重送相同的 POST 會被拒絕
func Deduplication(d *Deduplicator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogWarn("Failed to read request body", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.ErrRequestTooLarge.Response(false))
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		// 生成請求指紋
		fingerprint := c.ClientIP() + ":" + c.Request.URL.Path + ":" + bodyHash
		if d.Seen(fingerprint) {
			common.LogInfo("Duplicate request rejected",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response(false))
			return
		}

		c.Next()
	}
}
