package food

import (
	"context"

	"food-compare/internal/core/ai"
	foodCore "food-compare/internal/core/food"
	"food-compare/internal/pkg/common"
)

// Resolver 解析食物名稱
type Resolver interface {
	Resolve(ctx context.Context, query string) (*foodCore.Resolution, error)
	Suggest(ctx context.Context, query string) ([]common.CandidateSuggestion, error)
	Save(ctx context.Context, record *common.FoodRecord) error
}

// Estimator AI 營養估算
type Estimator interface {
	Estimate(ctx context.Context, name string) (ai.Estimate, error)
}

// Comparer 食物比較
type Comparer interface {
	Compare(ctx context.Context, foods []common.FoodRecord) (common.Winner, error)
}

// PathAI AI 估算的解析路徑
const PathAI = "ai"

// FoodRequest 食物查詢請求
type FoodRequest struct {
	FoodName string `json:"foodName" validate:"required,max=200"`
}

// FoodView 回傳給前端的食物資料
type FoodView struct {
	ID string `json:"id"`
	common.FoodRecord
	DisplayName string              `json:"displayName"`
	Path        string              `json:"path"`
	Summary     *common.FoodSummary `json:"summary,omitempty"`
}

// SuggestionsResponse 搜尋建議響應
type SuggestionsResponse struct {
	Suggestions []common.CandidateSuggestion `json:"suggestions"`
}

// CompareFood 比較請求中的食物
type CompareFood struct {
	ID          string            `json:"id"`
	Name        string            `json:"name" validate:"required"`
	PortionSize string            `json:"portionSize"`
	Macros      common.FoodMacros `json:"macros"`
	Source      common.Source     `json:"source"`
}

// CompareRequest 比較請求
type CompareRequest struct {
	Foods []CompareFood `json:"foods" validate:"required,min=2,max=10,dive"`
}

func newFoodView(record common.FoodRecord, displayName, path string, summary *common.FoodSummary) FoodView {
	return FoodView{
		ID:          common.GenerateUUID(),
		FoodRecord:  record,
		DisplayName: displayName,
		Path:        path,
		Summary:     summary,
	}
}
