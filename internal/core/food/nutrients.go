package food

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"food-compare/internal/pkg/common"
)

// IDMapper 以營養素 ID 別名表換算，每種營養素取第一個找到的 ID
type IDMapper struct {
	Calories     []int
	Protein      []int
	TotalFat     []int
	SaturatedFat []int
	Carbs        []int
	Sugars       []int
	Fibre        []int
}

// Map 實現 NutrientMapper，數值換算為每 100g
func (m IDMapper) Map(raw RawExternalFood) NormalizedNutrients {
	values := make(map[int]float64, len(raw.Nutrients))
	for _, n := range raw.Nutrients {
		if _, ok := values[n.ID]; !ok {
			values[n.ID] = n.Value
		}
	}
	lookup := func(ids []int) float64 {
		for _, id := range ids {
			if v, ok := values[id]; ok {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return 0
				}
				return v
			}
		}
		return 0
	}

	scale := ScaleFactor(raw.ServingSize)
	return NormalizedNutrients{
		Calories:     lookup(m.Calories) * scale,
		Protein:      lookup(m.Protein) * scale,
		TotalFat:     lookup(m.TotalFat) * scale,
		SaturatedFat: lookup(m.SaturatedFat) * scale,
		Carbs:        lookup(m.Carbs) * scale,
		Sugars:       lookup(m.Sugars) * scale,
		Fibre:        lookup(m.Fibre) * scale,
	}
}

// ScaleFactor 換算到 100g 的倍率，份量未知時為 1
func ScaleFactor(servingSize float64) float64 {
	if servingSize <= 0 {
		return 1
	}
	return 100 / servingSize
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNegative(v float64) float64 {
	return math.Max(0, v)
}

// ToMacros 四捨五入並計算不飽和脂肪
func (n NormalizedNutrients) ToMacros() FoodMacros {
	return FoodMacros{
		Calories:       int(math.Round(nonNegative(n.Calories))),
		Protein:        round2(nonNegative(n.Protein)),
		UnsaturatedFat: round2(nonNegative(n.TotalFat - n.SaturatedFat)),
		SaturatedFat:   round2(nonNegative(n.SaturatedFat)),
		Carbs:          round2(nonNegative(n.Carbs)),
		Sugars:         round2(nonNegative(n.Sugars)),
		Fibre:          round2(nonNegative(n.Fibre)),
	}
}

// StoredName 外部描述轉為儲存名稱，"apple, raw" 轉為 "apple (raw)"
func StoredName(description string) string {
	lower := strings.ToLower(strings.TrimSpace(description))
	parts := strings.Split(lower, ",")
	if len(parts) == 2 {
		base := strings.TrimSpace(parts[0])
		qualifier := strings.TrimSpace(parts[1])
		if qualifier == "raw" || qualifier == "fresh" {
			return fmt.Sprintf("%s (%s)", base, qualifier)
		}
	}
	return lower
}

// BuildRecord 由外部候選建立食物資料
func BuildRecord(raw RawExternalFood, nutrients NormalizedNutrients) FoodRecord {
	source := raw.Source
	if !source.Valid() {
		source = common.SourceUSDA
	}

	var portions []Portion
	unit := strings.ToLower(strings.TrimSpace(raw.ServingSizeUnit))
	if raw.ServingSize > 0 && (unit == "g" || unit == "grm") {
		portions = append(portions, Portion{
			Amount:     1,
			Unit:       fmt.Sprintf("serving (%gg)", round2(raw.ServingSize)),
			GramWeight: round2(raw.ServingSize),
		})
	}

	return FoodRecord{
		Name:        StoredName(raw.Description),
		PortionSize: common.DefaultPortionSize,
		Portions:    EnsurePortions(portions),
		Macros:      nutrients.ToMacros(),
		Source:      source,
		SourceURL:   raw.SourceURL,
	}
}

// EnsurePortions 過濾無效份量、補上 100g 並依重量排序
func EnsurePortions(portions []Portion) []Portion {
	out := make([]Portion, 0, len(portions)+1)
	has100g := false
	for _, p := range portions {
		if p.GramWeight <= 0 || p.Amount <= 0 {
			continue
		}
		if p.Amount == 1 && p.Unit == common.DefaultPortionSize && p.GramWeight == 100 {
			if has100g {
				continue
			}
			has100g = true
		}
		out = append(out, p)
	}
	if !has100g {
		out = append(out, Portion{Amount: 1, Unit: common.DefaultPortionSize, GramWeight: 100})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GramWeight < out[j].GramWeight
	})
	return out
}

// HasNutritionData 卡路里、蛋白質、總脂肪、碳水全為 0 的資料視為無效
func HasNutritionData(m FoodMacros) bool {
	return m.Calories != 0 || m.Protein != 0 || m.TotalFat() != 0 || m.Carbs != 0
}

// ValidateRecord 寫入目錄前的檢查
func ValidateRecord(r *FoodRecord) error {
	if r == nil || strings.TrimSpace(r.Name) == "" {
		return common.ErrInvalidRecord.Wrap(fmt.Errorf("empty name"))
	}
	if !r.Source.Valid() {
		return common.ErrInvalidRecord.Wrap(fmt.Errorf("invalid source %q", r.Source))
	}
	m := r.Macros
	if m.Calories < 0 || m.Protein < 0 || m.UnsaturatedFat < 0 || m.SaturatedFat < 0 ||
		m.Carbs < 0 || m.Sugars < 0 || m.Fibre < 0 {
		return common.ErrInvalidRecord.Wrap(fmt.Errorf("negative macro for %q", r.Name))
	}
	if !HasNutritionData(m) {
		return common.ErrInvalidRecord.Wrap(fmt.Errorf("no nutrition data for %q", r.Name))
	}
	return nil
}

// PrepareRecord 寫入前正規化：小寫名稱、預設份量、份量清單
func PrepareRecord(r *FoodRecord) {
	r.Name = CatalogName(r.Name)
	if r.PortionSize == "" {
		r.PortionSize = common.DefaultPortionSize
	}
	r.Portions = EnsurePortions(r.Portions)
}
