package food

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleByName(t *testing.T, name string) Rule {
	t.Helper()
	for _, r := range DefaultRules {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("rule %q not found", name)
	return Rule{}
}

func TestRulesInIsolation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rule string
		q, d string
		want float64
	}{
		{"compound_food", "apple", "apple pie", -500},
		{"compound_food", "apple", "apple", 0},
		{"compound_food", "apple", "pie, apple", 0},
		{"unwanted_modifier", "chicken", "chicken, with gravy", -300},
		{"unwanted_modifier", "formula", "infant formula", -300},
		{"anatomical_part", "chicken", "chicken, wing, raw", -250},
		{"anatomical_part", "chicken", "chicken liver", -250},
		{"anatomical_part", "chicken", "chicken, breast, raw", 0},
		{"duplicate_word", "cheese", "cheese, cheddar, cheese sauce", -200},
		{"duplicate_word", "cheese", "cheese, cheddar", 0},
		{"preferred_method", "fish", "fish, baked", 50},
		{"exact_match", "apple", "apple", 1000},
		{"comma_prefix", "rice", "rice, white", 100},
		{"space_prefix", "rice", "rice noodles", 90},
		{"space_prefix", "rice", "rice, white", 0},
		{"mid_string_comma", "beef", "soup, beef, canned", 80},
		{"length", "apple", "apple pie", -0.9},
		{"with_clause", "bread", "bread, with raisins", -20},
		{"made_with", "cake", "cake, made with oil", -30},
		{"flavored", "milk", "milk, chocolate flavored", -15},
	}

	for _, tc := range cases {
		got := ruleByName(t, tc.rule).Apply(tc.q, tc.d)
		assert.InDelta(t, tc.want, got, 1e-9, "%s(%q, %q)", tc.rule, tc.q, tc.d)
	}
}

func TestCompoundFoodSuppression(t *testing.T) {
	t.Parallel()

	r := NewRanker()
	apple := r.Score("apple", "apple")
	pie := r.Score("apple", "apple pie")
	assert.GreaterOrEqual(t, apple-pie, 500.0)

	got := r.RankDescriptions("apple", []string{"apple pie", "apple"})
	require.Len(t, got, 2)
	assert.Equal(t, "Apple", got[0].DisplayName)
	assert.Equal(t, "apple", got[0].OriginalName)
}

func TestAnatomicalPenalty(t *testing.T) {
	t.Parallel()

	r := NewRanker()
	breast := r.Score("chicken", "chicken, breast, raw")
	wing := r.Score("chicken", "chicken, wing, raw")
	assert.InDelta(t, 249.8, breast-wing, 1e-9)

	got := r.RankDescriptions("chicken", []string{"Chicken, wing, raw", "Chicken, breast, raw"})
	require.Len(t, got, 2)
	assert.Equal(t, "Breast chicken (raw)", got[0].DisplayName)
	assert.Equal(t, "Chicken, breast, raw", got[0].OriginalName)
}

func TestExactMatchAlwaysRanksFirst(t *testing.T) {
	t.Parallel()

	biased := NewRanker(append([]Rule{{
		Name:    "bias",
		Weight:  5000,
		Measure: func(q, d string) float64 { return when(d != q) },
	}}, DefaultRules...)...)

	got := biased.RankDescriptions("milk", []string{"milk, whole", "Milk", "milk, skim"})
	require.NotEmpty(t, got)
	assert.Equal(t, "Milk", got[0].OriginalName)
}

func TestRankDedupAndCap(t *testing.T) {
	t.Parallel()

	r := NewRanker()
	got := r.RankDescriptions("apple", []string{"Apple, raw", "apple, raw"})
	require.Len(t, got, 1)
	assert.Equal(t, "Apple (raw)", got[0].DisplayName)
	assert.Equal(t, "Apple, raw", got[0].OriginalName)

	var many []string
	for i := 0; i < 12; i++ {
		many = append(many, fmt.Sprintf("apple, variety%d", i))
	}
	got = r.RankDescriptions("apple", many)
	assert.Len(t, got, MaxResults)

	seen := map[string]bool{}
	for _, s := range got {
		assert.False(t, seen[s.DisplayName], "duplicate %q", s.DisplayName)
		seen[s.DisplayName] = true
	}
}

func TestRankIsDeterministicAndStable(t *testing.T) {
	t.Parallel()

	r := NewRanker()
	input := []string{"rice, white", "rice, brown", "rice, wild", "rice dressing", "rice pudding"}
	first := r.RankDescriptions("rice", input)
	second := r.RankDescriptions("rice", input)
	assert.Equal(t, first, second)

	// 同分保持輸入順序
	assert.Equal(t, "rice, wild", first[0].OriginalName)
	assert.Equal(t, "rice, white", first[1].OriginalName)
	assert.Equal(t, "rice, brown", first[2].OriginalName)
}

func TestRankSkipsBlankDescriptions(t *testing.T) {
	t.Parallel()

	got := NewRanker().RankDescriptions("kiwi", []string{"", "  ", "Kiwifruit, green, raw"})
	require.Len(t, got, 1)
	assert.Equal(t, "Kiwifruit, green, raw", got[0].OriginalName)
}

func TestSuggestionDisplayName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		q, d string
		want string
	}{
		{"rice", "Rice, white, cooked", "White rice"},
		{"rice", "Rice, white, raw", "White rice (raw)"},
		{"chicken", "Chicken, breast, raw", "Breast chicken (raw)"},
		{"chicken", "Chicken, breast, cooked", "Breast chicken"},
		{"basil", "Basil, sweet, fresh, chopped", "Sweet basil (fresh), chopped"},
		{"apple", "Apple juice, raw", "Apple juice (raw)"},
		{"bread", "Bread, whole wheat, NFS", "Bread whole wheat"},
		{"apple", "Apple, raw", "Apple (raw)"},
		{"tomato", "Tomato, NS as to form, fresh", "Tomato (fresh)"},
		{"milk", "Milk, whole", "Whole milk"},
		{"beef", "Ground beef, as ingredient", "Ground beef"},
		{"rice", "Rice, brown, long-grain", "Brown rice, long-grain"},
		{"salmon", "Fish, salmon, baked", "Fish, salmon baked"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SuggestionDisplayName(tc.q, tc.d), tc.d)
	}
}
