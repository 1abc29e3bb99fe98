package usda

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"food-compare/internal/core/cache"
	"food-compare/internal/core/food"
	"food-compare/internal/pkg/common"

	"go.uber.org/zap"
)

// CachedSource 以快取包裝外部來源，鍵為小寫查詢字串
type CachedSource struct {
	source food.ExternalSource
	store  cache.Store
	ttl    time.Duration
}

// NewCachedSource 創建快取來源，store 為 nil 時直接回傳 source
func NewCachedSource(source food.ExternalSource, store cache.Store, ttl time.Duration) food.ExternalSource {
	if store == nil {
		return source
	}
	return &CachedSource{source: source, store: store, ttl: ttl}
}

func searchKey(query string) string {
	return cache.Key("usda:search", strings.ToLower(strings.TrimSpace(query)))
}

// Search 先查快取，未命中時查詢來源並寫入快取
func (s *CachedSource) Search(ctx context.Context, query string) ([]food.RawExternalFood, error) {
	key := searchKey(query)

	cached, err := s.store.Get(ctx, key)
	if err == nil {
		var foods []food.RawExternalFood
		if err := json.Unmarshal([]byte(cached), &foods); err == nil {
			return foods, nil
		}
		common.LogWarn("快取內容解析失敗", zap.String("鍵", key))
	} else if !errors.Is(err, common.ErrCacheMiss) {
		common.LogWarn("讀取快取失敗", zap.Error(err))
	}

	foods, err := s.source.Search(ctx, query)
	if err != nil || len(foods) == 0 {
		return foods, err
	}

	data, err := json.Marshal(foods)
	if err != nil {
		return foods, nil
	}
	if err := s.store.Set(ctx, key, string(data), s.ttl); err != nil {
		common.LogWarn("寫入快取失敗", zap.String("鍵", key), zap.Error(err))
	}
	return foods, nil
}
