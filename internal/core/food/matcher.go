package food

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"food-compare/internal/pkg/common"

	"go.uber.org/zap"
)

// CookingMethods 排序用的烹調方式（整字比對）
var CookingMethods = []string{"fried", "grilled", "baked", "roasted", "cooked", "boiled", "steamed", "raw"}

var cookingMethodWord = regexp.MustCompile(`\b(` + strings.Join(CookingMethods, "|") + `)\b`)

// 排序層級
const (
	TierExact = iota
	TierShortName
	TierCookingMethod
	TierCommaPrefix
	TierSpacePrefix
	TierOther
)

// Tokenize 以空白切分並轉小寫
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// ContainsAllTokens 名稱是否包含所有 token（子字串比對，忽略重音符號）
func ContainsAllTokens(name string, tokens []string) bool {
	key := FoldName(name)
	for _, t := range tokens {
		if !strings.Contains(key, FoldName(t)) {
			return false
		}
	}
	return true
}

// MatchTier 計算名稱相對於查詢的層級，數字越小越優先
func MatchTier(name, query string) int {
	n := FoldName(name)
	q := FoldName(query)
	switch {
	case n == q:
		return TierExact
	case len(strings.Fields(n)) <= 2:
		return TierShortName
	case cookingMethodWord.MatchString(n):
		return TierCookingMethod
	case strings.HasPrefix(n, q+", "):
		return TierCommaPrefix
	case strings.HasPrefix(n, q+" "):
		return TierSpacePrefix
	}
	return TierOther
}

// SortMatches 依層級、名稱長度、字數排序；最後以名稱排序確保結果穩定
func SortMatches(records []FoodRecord, query string) {
	type keyed struct {
		tier, length, words int
		name                string
	}
	keys := make(map[string]keyed, len(records))
	keyOf := func(r FoodRecord) keyed {
		if k, ok := keys[r.Name]; ok {
			return k
		}
		n := FoldName(r.Name)
		k := keyed{
			tier:   MatchTier(n, query),
			length: len(n),
			words:  len(strings.Fields(n)),
			name:   n,
		}
		keys[r.Name] = k
		return k
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := keyOf(records[i]), keyOf(records[j])
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.length != b.length {
			return a.length < b.length
		}
		if a.words != b.words {
			return a.words < b.words
		}
		return a.name < b.name
	})
}

// Matcher 本地目錄比對
type Matcher struct {
	catalog Catalog
}

// NewMatcher 創建本地目錄比對器
func NewMatcher(catalog Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// ExactMatch 不分大小寫、不分重音的精確比對
func (m *Matcher) ExactMatch(ctx context.Context, name string) (*FoodRecord, error) {
	return m.catalog.FindByName(ctx, FoldName(name))
}

// FuzzySearch 模糊搜尋，最多回傳 5 筆；任何錯誤都視為無結果
func (m *Matcher) FuzzySearch(ctx context.Context, query string) []FoodRecord {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	records, err := m.catalog.Search(ctx, tokens, strings.Join(tokens, " "), MaxResults)
	if err != nil {
		common.LogWarn("本地模糊搜尋失敗",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}

	if len(records) > MaxResults {
		records = records[:MaxResults]
	}
	return records
}
