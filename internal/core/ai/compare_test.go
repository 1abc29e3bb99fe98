package ai

import (
	"context"
	"errors"
	"testing"

	"food-compare/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, m common.FoodMacros) common.FoodRecord {
	return common.FoodRecord{Name: name, PortionSize: common.DefaultPortionSize, Macros: m}
}

var (
	apple   = record("apple (raw)", common.FoodMacros{Calories: 52, Protein: 0.26, SaturatedFat: 0.03, Sugars: 10.39, Fibre: 2.4})
	chicken = record("chicken breast", common.FoodMacros{Calories: 165, Protein: 31, SaturatedFat: 1, Fibre: 0})
	cola    = record("cola", common.FoodMacros{Calories: 42, Sugars: 10.6})
)

func TestCompareRequiresTwoFoods(t *testing.T) {
	_, err := NewComparer(nil).Compare(context.Background(), []common.FoodRecord{apple})
	assert.ErrorIs(t, err, common.ErrInvalidRequest)
}

func TestCompareWithAISnapsWinnerName(t *testing.T) {
	completer := &fakeCompleter{content: `{"foodName": "Chicken Breasts", "reason": "high protein with little saturated fat"}`}

	got, err := NewComparer(completer).Compare(context.Background(), []common.FoodRecord{apple, chicken, cola})
	require.NoError(t, err)
	assert.Equal(t, "chicken breast", got.FoodName)
	assert.Equal(t, "high protein with little saturated fat", got.Reason)

	require.Len(t, completer.prompts, 1)
	assert.Equal(t, PurposeCompare, completer.purposes[0])
	assert.Contains(t, completer.prompts[0], `"name": "apple (raw)"`)
}

func TestCompareFallsBackToHeuristic(t *testing.T) {
	tests := []struct {
		name      string
		completer Completer
	}{
		{name: "ai disabled", completer: nil},
		{name: "ai error", completer: &fakeCompleter{err: errors.New("timeout")}},
		{name: "malformed", completer: &fakeCompleter{content: "chicken wins"}},
		{name: "missing reason", completer: &fakeCompleter{content: `{"foodName": "cola"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewComparer(tt.completer).Compare(context.Background(), []common.FoodRecord{apple, chicken, cola})
			require.NoError(t, err)
			assert.Equal(t, "chicken breast", got.FoodName)
			assert.Contains(t, got.Reason, "nutrient density")
		})
	}
}

func TestHeuristicWinnerTiesGoToEarlier(t *testing.T) {
	a := record("a", common.FoodMacros{Calories: 100, Protein: 10})
	b := record("b", common.FoodMacros{Calories: 100, Protein: 10})
	assert.Equal(t, "a", HeuristicWinner([]common.FoodRecord{a, b}).FoodName)
}

func TestDensityScore(t *testing.T) {
	assert.InDelta(t, 18.18, DensityScore(chicken.Macros), 0.01)
	assert.InDelta(t, -25.24, DensityScore(cola.Macros), 0.01)

	// 0 kcal 以 1 kcal 計算
	water := common.FoodMacros{}
	assert.Equal(t, 0.0, DensityScore(water))
}

func TestClosestFood(t *testing.T) {
	foods := []common.FoodRecord{apple, chicken, cola}
	assert.Equal(t, 2, ClosestFood("Cola", foods))
	assert.Equal(t, 0, ClosestFood("apple raw", foods))
	assert.Equal(t, 1, ClosestFood("chicken breasts", foods))
}
