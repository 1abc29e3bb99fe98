package ai

import (
	"context"
	"fmt"

	"food-compare/internal/core/food"
	"food-compare/internal/pkg/common"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const foodDataPrompt = `you are a nutritional analysis expert. analyze the following food item and provide accurate nutritional information.

food item: %s

if the food item is not an edible food or drink, respond with ONLY {"isFood": false}.

otherwise respond with ONLY a JSON object in this exact format:
{
  "isFood": true,
  "name": "food name",
  "macros": {
    "calories": number (kcal per 100g),
    "protein": number (grams per 100g),
    "unsaturatedFat": number (grams per 100g),
    "saturatedFat": number (grams per 100g),
    "carbs": number (grams per 100g),
    "sugars": number (grams per 100g),
    "fibre": number (grams per 100g)
  },
  "summary": {
    "pros": ["2-3 specific health benefits"],
    "cons": ["2-3 specific health concerns or limitations"]
  }
}

requirements:
- all values should be per 100g serving
- be accurate and use real nutritional data
- pros should highlight genuine nutritional benefits
- cons should mention realistic concerns (allergens, sugar content, etc)
- keep pros and cons concise (one sentence each)
- use lowercase for all text except numbers
- do not include any text outside the JSON object`

// estimatePayload 模型回傳的估算內容
type estimatePayload struct {
	IsFood  *bool           `json:"isFood"`
	Name    string          `json:"name"`
	Macros  *macrosPayload  `json:"macros" validate:"required"`
	Summary *summaryPayload `json:"summary"`
}

type macrosPayload struct {
	Calories       *float64 `json:"calories" validate:"required,gte=0,lte=1000"`
	Protein        *float64 `json:"protein" validate:"required,gte=0,lte=100"`
	UnsaturatedFat *float64 `json:"unsaturatedFat" validate:"required,gte=0,lte=100"`
	SaturatedFat   *float64 `json:"saturatedFat" validate:"required,gte=0,lte=100"`
	Carbs          *float64 `json:"carbs" validate:"required,gte=0,lte=100"`
	Sugars         *float64 `json:"sugars" validate:"omitempty,gte=0,lte=100"`
	Fibre          *float64 `json:"fibre" validate:"omitempty,gte=0,lte=100"`
}

type summaryPayload struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// Estimator 以 AI 估算資料庫中沒有的食物
type Estimator struct {
	completer Completer
	validate  *validator.Validate
}

// NewEstimator 創建估算器
func NewEstimator(completer Completer) *Estimator {
	return &Estimator{
		completer: completer,
		validate:  validator.New(),
	}
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Estimate 估算每 100g 營養素；錯誤與無法解析時回傳 OutcomeUnknown
func (e *Estimator) Estimate(ctx context.Context, name string) (Estimate, error) {
	name = food.CatalogName(name)
	if name == "" {
		return Estimate{Outcome: OutcomeUnknown}, common.ErrInvalidQuery
	}

	content, err := e.completer.Complete(ctx, PurposeEstimate, fmt.Sprintf(foodDataPrompt, name))
	if err != nil {
		return Estimate{Outcome: OutcomeUnknown}, err
	}

	var payload estimatePayload
	if err := common.ParseAIJSON(content, &payload); err != nil {
		common.LogWarn("AI 估算結果解析失敗", zap.String("food", name), zap.Error(err))
		return Estimate{Outcome: OutcomeUnknown}, fmt.Errorf("failed to parse estimate: %w", err)
	}

	if payload.IsFood != nil && !*payload.IsFood {
		common.LogInfo("AI 判斷為非食物", zap.String("food", name))
		return Estimate{Outcome: OutcomeInvalid}, nil
	}

	if err := e.validate.Struct(payload); err != nil {
		common.LogWarn("AI 估算結果不完整", zap.String("food", name), zap.Error(err))
		return Estimate{Outcome: OutcomeUnknown}, fmt.Errorf("invalid estimate payload: %w", err)
	}

	m := payload.Macros
	nutrients := food.NormalizedNutrients{
		Calories:     valueOf(m.Calories),
		Protein:      valueOf(m.Protein),
		TotalFat:     valueOf(m.UnsaturatedFat) + valueOf(m.SaturatedFat),
		SaturatedFat: valueOf(m.SaturatedFat),
		Carbs:        valueOf(m.Carbs),
		Sugars:       valueOf(m.Sugars),
		Fibre:        valueOf(m.Fibre),
	}

	estimate := Estimate{
		Outcome: OutcomeValid,
		Record: common.FoodRecord{
			Name:        name,
			PortionSize: common.DefaultPortionSize,
			Portions:    food.EnsurePortions(nil),
			Macros:      nutrients.ToMacros(),
			Source:      common.SourceAI,
		},
	}
	if payload.Summary != nil {
		estimate.Summary = &common.FoodSummary{
			Pros: payload.Summary.Pros,
			Cons: payload.Summary.Cons,
		}
	}
	return estimate, nil
}
