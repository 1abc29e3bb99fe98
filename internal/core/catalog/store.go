package catalog

import (
	"context"

	"food-compare/internal/core/food"
	"food-compare/internal/pkg/common"
)

// Store 食物目錄儲存層
type Store interface {
	food.Catalog

	// DeleteBySource 刪除指定來源的所有資料，回傳刪除筆數
	DeleteBySource(ctx context.Context, source common.Source) (int64, error)
	// CountBySource 各來源的資料筆數
	CountBySource(ctx context.Context) (map[common.Source]int64, error)
	// Migrate 建立資料表與索引
	Migrate(ctx context.Context) error
	// Ping 檢查儲存層是否可用
	Ping(ctx context.Context) error
}
