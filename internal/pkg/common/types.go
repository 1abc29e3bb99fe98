package common

import (
	"fmt"
	"strings"
)

// Source 營養資料來源
type Source string

const (
	SourceUSDA       Source = "usda"
	SourceMyFoodData Source = "myfooddata"
	SourceAI         Source = "ai"
)

// Valid 檢查來源是否為已知值
func (s Source) Valid() bool {
	switch s {
	case SourceUSDA, SourceMyFoodData, SourceAI:
		return true
	}
	return false
}

// ParseSource 解析來源字串（不分大小寫）
func ParseSource(raw string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", NewValidationError(fmt.Sprintf("unknown source %q", raw))
	}
	return s, nil
}

// DefaultPortionSize 基準份量
const DefaultPortionSize = "100g"

// Portion 替代份量
type Portion struct {
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	GramWeight float64 `json:"gramWeight"`
}

// FoodMacros 每 100g 的營養素
type FoodMacros struct {
	Calories       int     `json:"calories"`
	Protein        float64 `json:"protein"`
	UnsaturatedFat float64 `json:"unsaturatedFat"`
	SaturatedFat   float64 `json:"saturatedFat"`
	Carbs          float64 `json:"carbs"`
	Sugars         float64 `json:"sugars"`
	Fibre          float64 `json:"fibre"`
}

// TotalFat 總脂肪
func (m FoodMacros) TotalFat() float64 {
	return m.UnsaturatedFat + m.SaturatedFat
}

// FoodRecord 食物目錄中的一筆資料
type FoodRecord struct {
	Name        string     `json:"name"`
	PortionSize string     `json:"portionSize"`
	Portions    []Portion  `json:"portions"`
	Macros      FoodMacros `json:"macros"`
	Source      Source     `json:"source"`
	SourceURL   string     `json:"sourceUrl,omitempty"`
}

// CandidateSuggestion 搜尋建議
type CandidateSuggestion struct {
	DisplayName  string `json:"displayName"`
	OriginalName string `json:"originalName"`
}

// FoodSummary AI 提供的優缺點
type FoodSummary struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// Winner 比較結果
type Winner struct {
	FoodName string `json:"foodName"`
	Reason   string `json:"reason"`
}

// FormatMacros 將營養素格式化為單行文字（供提示詞與日誌使用）
func FormatMacros(m FoodMacros) string {
	return fmt.Sprintf("%d kcal, protein %.2fg, unsaturated fat %.2fg, saturated fat %.2fg, carbs %.2fg, sugars %.2fg, fibre %.2fg",
		m.Calories, m.Protein, m.UnsaturatedFat, m.SaturatedFat, m.Carbs, m.Sugars, m.Fibre)
}
