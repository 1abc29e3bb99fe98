package ai

import (
	"context"
	"errors"
	"testing"

	"food-compare/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appleEstimate = `here you go:
{
  "isFood": true,
  "name": "apple",
  "macros": {
    "calories": 52,
    "protein": 0.26,
    "unsaturatedFat": 0.1,
    "saturatedFat": 0.03,
    "carbs": 13.81,
    "sugars": 10.39,
    "fibre": 2.4
  },
  "summary": {
    "pros": ["good source of fibre"],
    "cons": ["contains natural sugars"]
  }
}`

func TestEstimateValid(t *testing.T) {
	completer := &fakeCompleter{content: appleEstimate}
	estimator := NewEstimator(completer)

	got, err := estimator.Estimate(context.Background(), "  Green   Apple ")
	require.NoError(t, err)

	assert.Equal(t, OutcomeValid, got.Outcome)
	assert.Equal(t, "green apple", got.Record.Name)
	assert.Equal(t, common.SourceAI, got.Record.Source)
	assert.Equal(t, common.DefaultPortionSize, got.Record.PortionSize)
	require.Len(t, got.Record.Portions, 1)
	assert.Equal(t, 100.0, got.Record.Portions[0].GramWeight)

	m := got.Record.Macros
	assert.Equal(t, 52, m.Calories)
	assert.Equal(t, 0.26, m.Protein)
	assert.Equal(t, 0.1, m.UnsaturatedFat)
	assert.Equal(t, 0.03, m.SaturatedFat)
	assert.Equal(t, 13.81, m.Carbs)
	assert.Equal(t, 10.39, m.Sugars)
	assert.Equal(t, 2.4, m.Fibre)

	require.NotNil(t, got.Summary)
	assert.Equal(t, []string{"good source of fibre"}, got.Summary.Pros)
	assert.Equal(t, []string{"contains natural sugars"}, got.Summary.Cons)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "food item: green apple")
	assert.Equal(t, PurposeEstimate, completer.purposes[0])
}

func TestEstimateInvalidFood(t *testing.T) {
	estimator := NewEstimator(&fakeCompleter{content: `{"isFood": false}`})

	got, err := estimator.Estimate(context.Background(), "keyboard")
	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalid, got.Outcome)
}

func TestEstimateUnknown(t *testing.T) {
	tests := []struct {
		name      string
		completer *fakeCompleter
	}{
		{name: "completer error", completer: &fakeCompleter{err: errors.New("upstream down")}},
		{name: "not json", completer: &fakeCompleter{content: "i am not sure"}},
		{name: "missing macros", completer: &fakeCompleter{content: `{"isFood": true, "name": "apple"}`}},
		{name: "missing calories", completer: &fakeCompleter{content: `{"macros": {"protein": 1, "unsaturatedFat": 1, "saturatedFat": 1, "carbs": 1}}`}},
		{name: "negative value", completer: &fakeCompleter{content: `{"macros": {"calories": 10, "protein": -1, "unsaturatedFat": 1, "saturatedFat": 1, "carbs": 1}}`}},
		{name: "absurd calories", completer: &fakeCompleter{content: `{"macros": {"calories": 5000, "protein": 1, "unsaturatedFat": 1, "saturatedFat": 1, "carbs": 1}}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEstimator(tt.completer).Estimate(context.Background(), "apple")
			assert.Error(t, err)
			assert.Equal(t, OutcomeUnknown, got.Outcome)
		})
	}
}

func TestEstimateUnquotedKeys(t *testing.T) {
	content := `{isFood: true, macros: {calories: 0, protein: 0, unsaturatedFat: 0, saturatedFat: 0, carbs: 0}}`
	got, err := NewEstimator(&fakeCompleter{content: content}).Estimate(context.Background(), "water")
	require.NoError(t, err)

	// 全為 0 仍視為有效估算，是否寫入由呼叫端決定
	assert.Equal(t, OutcomeValid, got.Outcome)
	assert.Nil(t, got.Summary)
	assert.Equal(t, 0, got.Record.Macros.Calories)
}

func TestEstimateEmptyName(t *testing.T) {
	completer := &fakeCompleter{content: appleEstimate}
	got, err := NewEstimator(completer).Estimate(context.Background(), "   ")
	assert.ErrorIs(t, err, common.ErrInvalidQuery)
	assert.Equal(t, OutcomeUnknown, got.Outcome)
	assert.Empty(t, completer.prompts)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "valid", OutcomeValid.String())
	assert.Equal(t, "invalid", OutcomeInvalid.String())
	assert.Equal(t, "unknown", OutcomeUnknown.String())
}
