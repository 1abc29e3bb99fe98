package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"food-compare/internal/pkg/common"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const comparisonPrompt = `you are a nutritional comparison expert. analyze the following foods and determine which is the healthiest overall option.

foods to compare:
%s

consider these factors:
- protein content (higher is better)
- fiber content (higher is better)
- saturated fat (lower is better)
- sugar content (lower is better)
- overall nutrient density
- health benefits vs concerns

respond with ONLY a JSON object in this exact format:
{
  "foodName": "name of winning food",
  "reason": "brief explanation (2-3 sentences) of why this food wins, focusing on specific nutritional advantages"
}

requirements:
- choose only ONE winner
- base decision on overall nutritional value
- explanation should be specific and mention actual nutritional metrics
- use lowercase for all text
- keep explanation concise but informative
- do not include any text outside the JSON object`

// MinCompareFoods 比較所需的最少食物數
const MinCompareFoods = 2

type winnerPayload struct {
	FoodName string `json:"foodName" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

type compareItem struct {
	Name        string            `json:"name"`
	PortionSize string            `json:"portionSize"`
	Macros      common.FoodMacros `json:"macros"`
}

// Comparer 比較多個食物並選出最健康的一個
type Comparer struct {
	completer Completer
	validate  *validator.Validate
}

// NewComparer 創建比較器，completer 為 nil 時只使用營養密度規則
func NewComparer(completer Completer) *Comparer {
	return &Comparer{
		completer: completer,
		validate:  validator.New(),
	}
}

// Compare 選出勝出的食物；AI 不可用或失敗時改用營養密度規則
func (c *Comparer) Compare(ctx context.Context, foods []common.FoodRecord) (common.Winner, error) {
	if len(foods) < MinCompareFoods {
		return common.Winner{}, common.ErrInvalidRequest.Wrap(fmt.Errorf("at least %d foods are required for comparison", MinCompareFoods))
	}

	if c.completer != nil {
		winner, err := c.compareWithAI(ctx, foods)
		if err == nil {
			return winner, nil
		}
		common.LogWarn("AI 比較失敗，改用營養密度規則", zap.Error(err))
	}
	return HeuristicWinner(foods), nil
}

func (c *Comparer) compareWithAI(ctx context.Context, foods []common.FoodRecord) (common.Winner, error) {
	items := make([]compareItem, len(foods))
	for i, f := range foods {
		items[i] = compareItem{Name: f.Name, PortionSize: f.PortionSize, Macros: f.Macros}
	}
	foodsJSON, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return common.Winner{}, fmt.Errorf("failed to marshal foods: %w", err)
	}

	content, err := c.completer.Complete(ctx, PurposeCompare, fmt.Sprintf(comparisonPrompt, foodsJSON))
	if err != nil {
		return common.Winner{}, err
	}

	var payload winnerPayload
	if err := common.ParseAIJSON(content, &payload); err != nil {
		return common.Winner{}, fmt.Errorf("failed to parse comparison: %w", err)
	}
	if err := c.validate.Struct(payload); err != nil {
		return common.Winner{}, fmt.Errorf("invalid comparison payload: %w", err)
	}

	winner := foods[ClosestFood(payload.FoodName, foods)]
	return common.Winner{
		FoodName: winner.Name,
		Reason:   strings.TrimSpace(payload.Reason),
	}, nil
}

// ClosestFood 以編輯距離找出最接近的食物索引，距離相同時取較前者
func ClosestFood(name string, foods []common.FoodRecord) int {
	target := strings.ToLower(strings.TrimSpace(name))
	best, bestDist := 0, -1
	for i, f := range foods {
		d := levenshtein.ComputeDistance(target, strings.ToLower(strings.TrimSpace(f.Name)))
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// DensityScore 每 100 kcal 的 (蛋白質 + 纖維 - 飽和脂肪 - 糖)
func DensityScore(m common.FoodMacros) float64 {
	calories := float64(m.Calories)
	if calories < 1 {
		calories = 1
	}
	return (m.Protein + m.Fibre - m.SaturatedFat - m.Sugars) / calories * 100
}

// HeuristicWinner 以營養密度選出勝者，同分時取較前者
func HeuristicWinner(foods []common.FoodRecord) common.Winner {
	best := 0
	bestScore := DensityScore(foods[0].Macros)
	for i := 1; i < len(foods); i++ {
		if score := DensityScore(foods[i].Macros); score > bestScore {
			best, bestScore = i, score
		}
	}

	w := foods[best]
	return common.Winner{
		FoodName: w.Name,
		Reason: fmt.Sprintf("%s has the best nutrient density per 100 kcal, with %.1fg protein, %.1fg fibre, %.1fg saturated fat and %.1fg sugars per 100g.",
			strings.ToLower(w.Name), w.Macros.Protein, w.Macros.Fibre, w.Macros.SaturatedFat, w.Macros.Sugars),
	}
}
