package food

import (
	"regexp"
	"strings"
	"unicode"

	"food-compare/internal/pkg/common"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 技術性描述（以逗號分隔的子句）
var qualifierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i), raw(,|$)`),
	regexp.MustCompile(`(?i), unprepared(,|$)`),
	regexp.MustCompile(`(?i), refrigerated(,|$)`),
	regexp.MustCompile(`(?i), frozen(,|$)`),
	regexp.MustCompile(`(?i), pasteurized(,|$)`),
	regexp.MustCompile(`(?i), dried(,|$)`),
	regexp.MustCompile(`(?i), dry(,|$)`),
	regexp.MustCompile(`(?i), peeled(,|$)`),
	regexp.MustCompile(`(?i), with added vitamin [a-z](?:\s?and vitamin [a-z])?(,|$)`),
	regexp.MustCompile(`(?i), with salt added(,|$)`),
	regexp.MustCompile(`(?i), without salt added(,|$)`),
	regexp.MustCompile(`(?i), drained solids(,|$)`),
	regexp.MustCompile(`(?i), ready-to-serve(,|$)`),
	regexp.MustCompile(`(?i), unenriched(,|$)`),
}

// 多餘片語
var redundantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)broilers? or fryers?,?\s*`),
	regexp.MustCompile(`(?i)meat only,?\s*`),
	regexp.MustCompile(`(?i)boneless,?\s*`),
	regexp.MustCompile(`(?i)skinless,?\s*`),
}

var commaPattern = regexp.MustCompile(`^([^,]+),\s*(.+)$`)

// 分類改寫規則
var (
	dairyBase    = regexp.MustCompile(`(?i)^(milk|yogurt|cheese)$`)
	eggBase      = regexp.MustCompile(`(?i)^egg$`)
	fishBase     = regexp.MustCompile(`(?i)^fish$`)
	meatBase     = regexp.MustCompile(`(?i)^(chicken|beef|pork|turkey)$`)
	nutsBase     = regexp.MustCompile(`(?i)^nuts$`)
	flourBase    = regexp.MustCompile(`(?i)^flour$`)
	preparedBase = regexp.MustCompile(`(?i)^(cookies?|sausages?|bread|tortillas?)$`)

	eggParts       = regexp.MustCompile(`(?i)^(yolk|white|whole)$`)
	fishSpecies    = regexp.MustCompile(`(?i)^(salmon|tuna|cod|halibut|tilapia|trout|mackerel|sardine)$`)
	meatCuts       = regexp.MustCompile(`(?i)^(breast|thigh|drumstick|wing|ground|steak|loin|tenderloin|ribeye|chuck|flank)$`)
	nutSpecies     = regexp.MustCompile(`(?i)^(almond|peanut|walnut|cashew|pecan|pistachio|hazelnut|macadamia)s?$`)
	flourTypes     = regexp.MustCompile(`(?i)^(almond|oat|wheat|rye|coconut|rice|potato|bread|white|whole|all-purpose)$`)
	preparedDescs  = regexp.MustCompile(`(?i)^(oatmeal|chocolate chip|italian|white|whole-wheat|whole grain|corn|flour)$`)
	varietalDescs  = regexp.MustCompile(`(?i)^(hass|fuji|gala|honeycrisp|granny smith|red|green|yellow|orange|black|white|wild|long grain|short grain|basmati|jasmine)$`)
	keepPluralBase = regexp.MustCompile(`(?i)(ss|rice|oats)$`)
	keepPluralName = regexp.MustCompile(`(?i)(ss|rice|oats|lentils|peas)$`)
)

var (
	iesSuffix = regexp.MustCompile(`(?i)ies$`)
	oesSuffix = regexp.MustCompile(`(?i)oes$`)
	sSuffix   = regexp.MustCompile(`(?i)s$`)
)

// singularize 複數轉單數，keep 匹配的字尾不處理
func singularize(s string, keep *regexp.Regexp) string {
	switch {
	case iesSuffix.MatchString(s):
		return iesSuffix.ReplaceAllString(s, "y")
	case oesSuffix.MatchString(s):
		return oesSuffix.ReplaceAllString(s, "o")
	case sSuffix.MatchString(s) && !keep.MatchString(s):
		return sSuffix.ReplaceAllString(s, "")
	}
	return s
}

// firstMatch 回傳第一個符合的描述
func firstMatch(descs []string, pattern *regexp.Regexp) (string, bool) {
	for _, d := range descs {
		if pattern.MatchString(d) {
			return d, true
		}
	}
	return "", false
}

// NormalizeName 將資料庫中的原始名稱轉成簡短的顯示名稱
func NormalizeName(raw string) string {
	formatted := raw
	for _, p := range qualifierPatterns {
		formatted = p.ReplaceAllString(formatted, "${1}")
	}
	for _, p := range redundantPatterns {
		formatted = p.ReplaceAllString(formatted, "")
	}

	match := commaPattern.FindStringSubmatch(formatted)
	if match != nil {
		formatted = rewriteByCategory(match[1], splitDescriptors(match[2]))
	}

	if match == nil || formatted == common.CapitalizeFirst(raw) {
		formatted = singularize(formatted, keepPluralName)
	}

	return common.CapitalizeFirst(common.CollapseSpaces(formatted))
}

func splitDescriptors(descriptors string) []string {
	parts := strings.Split(descriptors, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// rewriteByCategory 依 base 所屬分類重組名稱
func rewriteByCategory(base string, descs []string) string {
	switch {
	case dairyBase.MatchString(base):
		return descs[0] + " " + base

	case eggBase.MatchString(base):
		part, ok := firstMatch(descs, eggParts)
		if !ok || part == "whole" {
			return base
		}
		return base + " " + part

	case fishBase.MatchString(base):
		if species, ok := firstMatch(descs, fishSpecies); ok {
			return species
		}
		return base

	case meatBase.MatchString(base):
		if cut, ok := firstMatch(descs, meatCuts); ok {
			return base + " " + cut
		}
		return base

	case nutsBase.MatchString(base):
		nut, ok := firstMatch(descs, nutSpecies)
		if !ok {
			return base
		}
		if sSuffix.MatchString(nut) && !strings.HasSuffix(strings.ToLower(nut), "ss") {
			nut = sSuffix.ReplaceAllString(nut, "")
		}
		return nut

	case flourBase.MatchString(base):
		if kind, ok := firstMatch(descs, flourTypes); ok {
			return kind + " " + base
		}
		return base

	case preparedBase.MatchString(base):
		if desc, ok := firstMatch(descs, preparedDescs); ok {
			return desc + " " + base
		}
		return base
	}

	singular := singularize(base, keepPluralBase)
	if variety, ok := firstMatch(descs, varietalDescs); ok {
		return variety + " " + singular
	}
	return singular
}

// FoldName 比對用的名稱鍵：小寫、合併空白、移除重音符號
// 目錄寫入與查詢兩端都必須使用同一個鍵
func FoldName(name string) string {
	folded := strings.ToLower(common.CollapseSpaces(name))
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(stripAccents, folded)
	if err != nil {
		return folded
	}
	return result
}

// NormalizeQuery 查詢字串正規化
func NormalizeQuery(query string) string {
	return FoldName(query)
}

// CatalogName 寫入目錄的名稱：小寫、合併空白，保留重音符號
func CatalogName(name string) string {
	return strings.ToLower(common.CollapseSpaces(name))
}
