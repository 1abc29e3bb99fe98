package usda

import "food-compare/internal/core/food"

// FDC 營養素 ID
const (
	NutrientEnergy         = 1008
	NutrientEnergyAtwater  = 2047
	NutrientEnergySpecific = 2048
	NutrientProtein        = 1003
	NutrientTotalFat       = 1004
	NutrientSaturatedFat   = 1258
	NutrientCarbohydrate   = 1005
	NutrientSugarsTotal    = 2000
	NutrientSugarsNLEA     = 1063
	NutrientFiber          = 1079
)

// NutrientIDs FDC 營養素別名表
var NutrientIDs = food.IDMapper{
	Calories:     []int{NutrientEnergy, NutrientEnergyAtwater, NutrientEnergySpecific},
	Protein:      []int{NutrientProtein},
	TotalFat:     []int{NutrientTotalFat},
	SaturatedFat: []int{NutrientSaturatedFat},
	Carbs:        []int{NutrientCarbohydrate},
	Sugars:       []int{NutrientSugarsTotal, NutrientSugarsNLEA},
	Fibre:        []int{NutrientFiber},
}

// NewNutrientMapper FDC 營養素換算
func NewNutrientMapper() food.NutrientMapper {
	return NutrientIDs
}
