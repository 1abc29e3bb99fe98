package food

import (
	"context"

	"food-compare/internal/pkg/common"
)

// 結果上限
const MaxResults = 5

type (
	FoodRecord          = common.FoodRecord
	FoodMacros          = common.FoodMacros
	Portion             = common.Portion
	CandidateSuggestion = common.CandidateSuggestion
	Source              = common.Source
)

// Catalog 本地食物目錄
type Catalog interface {
	// FindByName 以 FoldName 鍵精確查詢，找不到時回傳 nil, nil
	FindByName(ctx context.Context, name string) (*FoodRecord, error)
	// Search 名稱的 FoldName 鍵需包含所有 token，依排序規則回傳最多 limit 筆
	Search(ctx context.Context, tokens []string, query string, limit int) ([]FoodRecord, error)
	// Upsert 以小寫名稱為鍵寫入，衝突時覆蓋；同時保存 FoldName 鍵
	Upsert(ctx context.Context, record *FoodRecord) error
}

// Nutrient 外部營養素值
type Nutrient struct {
	ID    int     `json:"nutrientId"`
	Value float64 `json:"value"`
}

// RawExternalFood 外部資料庫回傳的候選食物
type RawExternalFood struct {
	ID              string     `json:"id"`
	Description     string     `json:"description"`
	Nutrients       []Nutrient `json:"nutrients"`
	ServingSize     float64    `json:"servingSize,omitempty"`
	ServingSizeUnit string     `json:"servingSizeUnit,omitempty"`
	SourceURL       string     `json:"sourceUrl,omitempty"`
	Source          Source     `json:"source"`
}

// ExternalSource 外部營養資料庫
type ExternalSource interface {
	Search(ctx context.Context, query string) ([]RawExternalFood, error)
}

// NormalizedNutrients 換算成每 100g 的營養素（尚未四捨五入）
type NormalizedNutrients struct {
	Calories     float64
	Protein      float64
	TotalFat     float64
	SaturatedFat float64
	Carbs        float64
	Sugars       float64
	Fibre        float64
}

// NutrientMapper 將外部資料轉成統一格式
type NutrientMapper interface {
	Map(raw RawExternalFood) NormalizedNutrients
}

// ScoredCandidate 排序用的暫存結構
type ScoredCandidate struct {
	Candidate    RawExternalFood
	Score        float64
	DisplayName  string
	OriginalName string
	index        int
}
