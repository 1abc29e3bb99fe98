package catalog

import (
	"context"
	"sync"

	"food-compare/internal/core/food"
	"food-compare/internal/pkg/common"
)

// MemoryStore 記憶體版食物目錄（未啟用資料庫時使用），以 food.FoldName 為鍵
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]common.FoodRecord
}

// NewMemoryStore 創建記憶體目錄
func NewMemoryStore(seed ...common.FoodRecord) *MemoryStore {
	s := &MemoryStore{records: make(map[string]common.FoodRecord, len(seed))}
	for i := range seed {
		s.put(seed[i])
	}
	return s
}

func (s *MemoryStore) put(r common.FoodRecord) {
	r.Name = food.CatalogName(r.Name)
	r.Portions = append([]common.Portion(nil), r.Portions...)
	s.records[food.FoldName(r.Name)] = r
}

func clone(r common.FoodRecord) common.FoodRecord {
	r.Portions = food.EnsurePortions(r.Portions)
	if r.PortionSize == "" {
		r.PortionSize = common.DefaultPortionSize
	}
	return r
}

// FindByName 不分大小寫與重音查詢
func (s *MemoryStore) FindByName(_ context.Context, name string) (*common.FoodRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[food.FoldName(name)]
	if !ok {
		return nil, nil
	}
	out := clone(r)
	return &out, nil
}

// Search 包含所有 token 的資料，排序與 Repository 一致
func (s *MemoryStore) Search(_ context.Context, tokens []string, query string, limit int) ([]common.FoodRecord, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	var matches []common.FoodRecord
	for _, r := range s.records {
		if food.ContainsAllTokens(r.Name, tokens) {
			matches = append(matches, clone(r))
		}
	}
	s.mu.RUnlock()

	food.SortMatches(matches, query)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Upsert 以 FoldName 鍵寫入，衝突時覆蓋
func (s *MemoryStore) Upsert(_ context.Context, record *common.FoodRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(*record)
	return nil
}

// DeleteBySource 刪除指定來源
func (s *MemoryStore) DeleteBySource(_ context.Context, source common.Source) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for name, r := range s.records {
		if r.Source == source {
			delete(s.records, name)
			deleted++
		}
	}
	return deleted, nil
}

// CountBySource 各來源筆數
func (s *MemoryStore) CountBySource(_ context.Context) (map[common.Source]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[common.Source]int64)
	for _, r := range s.records {
		counts[r.Source]++
	}
	return counts, nil
}

// Migrate 記憶體版不需要
func (s *MemoryStore) Migrate(context.Context) error { return nil }

// Ping 記憶體版永遠可用
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Len 目前筆數
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*MemoryStore)(nil)
)
