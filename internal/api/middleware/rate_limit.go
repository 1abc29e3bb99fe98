package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"food-compare/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientLimiter 以客戶端為鍵的固定視窗計數器
type ClientLimiter struct {
	limit  int
	window time.Duration
	clock  func() time.Time
	mu     sync.Mutex
	store  map[string]rateEntry
}

type rateEntry struct {
	count int
	reset time.Time
}

// NewClientLimiter 創建限流器，limit 或 window 不合法時回傳 nil（不限流）
func NewClientLimiter(limit int, window time.Duration, clock func() time.Time) *ClientLimiter {
	if limit <= 0 || window <= 0 {
		return nil
	}
	if clock == nil {
		clock = time.Now
	}
	return &ClientLimiter{
		limit:  limit,
		window: window,
		clock:  clock,
		store:  make(map[string]rateEntry),
	}
}

func clientKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "anonymous"
	}
	return key
}

// Allow 計入一次並回傳是否仍在限制內
func (l *ClientLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	key = clientKey(key)
	now := l.clock()
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.store[key]
	if !ok || now.After(entry.reset) {
		l.store[key] = rateEntry{count: 1, reset: now.Add(l.window)}
		l.pruneExpiredLocked(now)
		return true
	}

	if entry.count >= l.limit {
		return false
	}
	entry.count++
	l.store[key] = entry
	return true
}

// Exhausted 不計數，只檢查視窗內次數是否已用完
func (l *ClientLimiter) Exhausted(key string) bool {
	if l == nil {
		return false
	}
	key = clientKey(key)
	now := l.clock()
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.store[key]
	return ok && !now.After(entry.reset) && entry.count >= l.limit
}

// RetryAfter 距離視窗重置的時間
func (l *ClientLimiter) RetryAfter(key string) time.Duration {
	if l == nil {
		return 0
	}
	key = clientKey(key)
	now := l.clock()
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.store[key]
	if !ok || now.After(entry.reset) {
		return 0
	}
	return entry.reset.Sub(now)
}

func (l *ClientLimiter) pruneExpiredLocked(now time.Time) {
	for key, entry := range l.store {
		if now.After(entry.reset) {
			delete(l.store, key)
		}
	}
}

// SetRetryAfter 寫入 Retry-After 標頭（秒，至少 1）
func SetRetryAfter(c *gin.Context, d time.Duration) {
	seconds := int(d.Seconds())
	if d > 0 && seconds == 0 {
		seconds = 1
	}
	c.Header("Retry-After", fmt.Sprintf("%d", seconds))
}

// RateLimit 以客戶端 IP 限流的中間件
func RateLimit(limiter *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
			)

			SetRetryAfter(c, limiter.RetryAfter(ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response(false))
			return
		}

		c.Next()
	}
}
