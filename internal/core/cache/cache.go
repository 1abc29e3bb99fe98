package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"food-compare/internal/infrastructure/config"
	"food-compare/internal/pkg/common"
)

// Store 快取介面，找不到時回傳 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Stats() map[string]interface{}
	Close() error
}

// hashString 計算字符串的 SHA-256 哈希值
func hashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

// Key 生成快取鍵：namespace:sha256(parts)
func Key(namespace string, parts ...string) string {
	return namespace + ":" + hashString(strings.Join(parts, "\x00"))
}

// New 依設定建立快取，未啟用時回傳 nil
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}
	if cfg.Backend == config.CacheBackendRedis {
		store, err := NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return NewManager(cfg), nil
}
