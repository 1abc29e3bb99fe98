package food

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(descriptions ...string) []RawExternalFood {
	out := make([]RawExternalFood, len(descriptions))
	for i, d := range descriptions {
		out[i] = RawExternalFood{ID: d, Description: d}
	}
	return out
}

func TestSelectBestMatchCascade(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		query string
		descs []string
		want  string
	}{
		{"exact description", "apple", []string{"Apple pie", "Apple, raw", "apple"}, "apple"},
		{"exact with raw suffix", "apple", []string{"Apple pie", "Apple, dried", "Apple, raw, with skin", "Apple, raw"}, "Apple, raw"},
		{"exact with fresh suffix", "basil", []string{"Basil, dried", "Basil, fresh"}, "Basil, fresh"},
		{"comma prefix containing raw", "apple", []string{"Apple pie", "Apple, dried", "Apple, raw, with skin"}, "Apple, raw, with skin"},
		{"comma prefix containing fresh", "mint", []string{"Mint, dried", "Mint, fresh, chopped"}, "Mint, fresh, chopped"},
		{"comma prefix", "rice", []string{"Rice dressing", "Rice, white, cooked"}, "Rice, white, cooked"},
		{"space prefix", "rice", []string{"Pineapple", "Rice dressing"}, "Rice dressing"},
		{"any prefix", "rice", []string{"Pineapple juice", "Ricecakes"}, "Ricecakes"},
		{"first candidate", "rice", []string{"Pineapple", "Wild oats"}, "Pineapple"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := SelectBestMatch(tc.query, candidates(tc.descs...))
			require.True(t, ok)
			assert.Equal(t, tc.want, got.Description)
		})
	}
}

func TestSelectBestMatchEmpty(t *testing.T) {
	t.Parallel()

	_, ok := SelectBestMatch("apple", nil)
	assert.False(t, ok)
}
