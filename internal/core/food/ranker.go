package food

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"food-compare/internal/pkg/common"
)

// Rule 具名的加權評分規則，Measure 回傳觸發量（通常是 0 或 1）
type Rule struct {
	Name    string
	Weight  float64
	Measure func(q, d string) float64
}

// Apply 計算單一規則的分數
func (r Rule) Apply(q, d string) float64 {
	return r.Weight * r.Measure(q, d)
}

var (
	compoundWords    = []string{"sauce", "dressing", "soup", "salad", "sandwich", "burger", "pizza", "cake", "pie", "cookie", "bread", "cracker", "chip"}
	unwantedPhrases  = []string{"with gravy", "with sauce", "with butter", "made with", "ns as to", "mixture", "baby food", "infant", "formula", "from fast food", "from restaurant"}
	anatomicalParts  = []string{"back", "tail", "neck", "gizzard", "giblets", "liver", "heart", "kidney", "tongue", "feet", "head", "wing", "thigh", "drumstick"}
	preferredMethods = []string{"fried", "baked", "grilled", "roasted", "broiled", "boiled", "steamed", "cooked"}
)

func when(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

func containsAny(d string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(d, p) {
			return true
		}
	}
	return false
}

func isCompoundFood(q, d string) bool {
	if d == q {
		return false
	}
	for _, w := range compoundWords {
		if strings.HasPrefix(d, q+" "+w) {
			return true
		}
	}
	return false
}

func hasAnatomicalPart(q, d string) bool {
	for _, part := range anatomicalParts {
		if strings.Contains(d, part+" "+q) ||
			strings.Contains(d, q+" "+part) ||
			strings.Contains(d, q+", "+part) ||
			strings.Contains(d, ", "+part+",") {
			return true
		}
	}
	return false
}

func hasDuplicateWord(d string) bool {
	words := strings.FieldsFunc(d, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			return true
		}
		seen[w] = struct{}{}
	}
	return false
}

func hasPreferredMethod(d string) bool {
	for _, m := range preferredMethods {
		if strings.Contains(d, ", "+m) {
			return true
		}
	}
	return false
}

// DefaultRules 外部候選的評分規則
var DefaultRules = []Rule{
	{Name: "compound_food", Weight: -500, Measure: func(q, d string) float64 { return when(isCompoundFood(q, d)) }},
	{Name: "unwanted_modifier", Weight: -300, Measure: func(q, d string) float64 { return when(containsAny(d, unwantedPhrases)) }},
	{Name: "anatomical_part", Weight: -250, Measure: func(q, d string) float64 { return when(hasAnatomicalPart(q, d)) }},
	{Name: "duplicate_word", Weight: -200, Measure: func(q, d string) float64 { return when(hasDuplicateWord(d)) }},
	{Name: "preferred_method", Weight: 50, Measure: func(q, d string) float64 { return when(hasPreferredMethod(d)) }},
	{Name: "exact_match", Weight: 1000, Measure: func(q, d string) float64 { return when(d == q) }},
	{Name: "comma_prefix", Weight: 100, Measure: func(q, d string) float64 { return when(strings.HasPrefix(d, q+",")) }},
	{Name: "space_prefix", Weight: 90, Measure: func(q, d string) float64 {
		return when(!strings.HasPrefix(d, q+",") && strings.HasPrefix(d, q+" "))
	}},
	{Name: "mid_string_comma", Weight: 80, Measure: func(q, d string) float64 { return when(strings.Contains(d, ", "+q+",")) }},
	{Name: "length", Weight: -0.1, Measure: func(q, d string) float64 { return float64(len(d)) }},
	{Name: "with_clause", Weight: -20, Measure: func(q, d string) float64 { return when(strings.Contains(d, "with ")) }},
	{Name: "made_with", Weight: -30, Measure: func(q, d string) float64 { return when(strings.Contains(d, "made with")) }},
	{Name: "flavored", Weight: -15, Measure: func(q, d string) float64 { return when(strings.Contains(d, "flavored")) }},
}

// Ranker 外部候選排序器
type Ranker struct {
	rules []Rule
}

// NewRanker 創建排序器，未指定規則時使用 DefaultRules
func NewRanker(rules ...Rule) *Ranker {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Ranker{rules: rules}
}

// Score 對單一描述評分
func (r *Ranker) Score(query, description string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	d := strings.ToLower(strings.TrimSpace(description))
	score := 0.0
	for _, rule := range r.rules {
		score += rule.Apply(q, d)
	}
	return score
}

// ScoreCandidates 評分並排序；精確相符永遠排在最前，同分保持輸入順序
func (r *Ranker) ScoreCandidates(query string, candidates []RawExternalFood) []ScoredCandidate {
	q := strings.ToLower(strings.TrimSpace(query))
	scored := make([]ScoredCandidate, 0, len(candidates))
	for i, c := range candidates {
		if strings.TrimSpace(c.Description) == "" {
			continue
		}
		scored = append(scored, ScoredCandidate{
			Candidate:    c,
			Score:        r.Score(q, c.Description),
			DisplayName:  SuggestionDisplayName(q, c.Description),
			OriginalName: c.Description,
			index:        i,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		ei := strings.EqualFold(strings.TrimSpace(scored[i].OriginalName), q)
		ej := strings.EqualFold(strings.TrimSpace(scored[j].OriginalName), q)
		if ei != ej {
			return ei
		}
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Rank 回傳去重後最多 5 筆建議
func (r *Ranker) Rank(query string, candidates []RawExternalFood) []CandidateSuggestion {
	return dedupSuggestions(r.ScoreCandidates(query, candidates))
}

// RankDescriptions 直接對描述字串排序
func (r *Ranker) RankDescriptions(query string, descriptions []string) []CandidateSuggestion {
	candidates := make([]RawExternalFood, len(descriptions))
	for i, d := range descriptions {
		candidates[i] = RawExternalFood{Description: d}
	}
	return r.Rank(query, candidates)
}

func dedupSuggestions(scored []ScoredCandidate) []CandidateSuggestion {
	seen := make(map[string]struct{}, len(scored))
	out := make([]CandidateSuggestion, 0, MaxResults)
	for _, s := range scored {
		key := strings.ToLower(s.DisplayName)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, CandidateSuggestion{DisplayName: s.DisplayName, OriginalName: s.OriginalName})
		if len(out) == MaxResults {
			break
		}
	}
	return out
}

// 建議名稱清理
var (
	nfsClause    = regexp.MustCompile(`, nfs(,|$)`)
	nsAsToClause = regexp.MustCompile(`, ns as to [^,]*`)
	asIngredient = regexp.MustCompile(`, as ingredient(,|$)`)
	cookedClause = regexp.MustCompile(`, cooked(,|$)`)
	rawClause    = regexp.MustCompile(`, raw(,|$)`)
	freshClause  = regexp.MustCompile(`, fresh(,|$)`)
)

// 可前置的短描述長度上限
const maxShortDescSize = 20

// splitStateSuffix 拆出描述後的 " (raw)" / " (fresh)"，判斷短描述時不計入
func splitStateSuffix(desc string) (string, string) {
	for _, suffix := range []string{" (raw)", " (fresh)"} {
		if strings.HasSuffix(desc, suffix) {
			return strings.TrimSuffix(desc, suffix), suffix
		}
	}
	return desc, ""
}

// SuggestionDisplayName 外部候選的顯示名稱
func SuggestionDisplayName(query, description string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	name := strings.ToLower(strings.TrimSpace(description))

	name = nfsClause.ReplaceAllString(name, "${1}")
	name = nsAsToClause.ReplaceAllString(name, "")
	name = asIngredient.ReplaceAllString(name, "${1}")
	name = cookedClause.ReplaceAllString(name, "${1}")
	name = rawClause.ReplaceAllString(name, " (raw)${1}")
	name = freshClause.ReplaceAllString(name, " (fresh)${1}")

	if q != "" && strings.HasPrefix(name, q+", ") {
		rest := name[len(q)+2:]
		desc, tail, hasTail := strings.Cut(rest, ",")
		desc, suffix := splitStateSuffix(strings.TrimSpace(desc))
		if desc != "" && len(desc) < maxShortDescSize && !strings.Contains(desc, " ") {
			name = desc + " " + q + suffix
			if hasTail {
				name += "," + tail
			}
		} else {
			name = q + " " + rest
		}
	} else if idx := strings.Index(name, q); q != "" && idx >= 0 {
		after := idx + len(q)
		if comma := strings.Index(name[after:], ","); comma >= 0 {
			pos := after + comma
			name = name[:pos] + name[pos+1:]
		}
	}

	return common.CapitalizeFirst(common.CollapseSpaces(name))
}
