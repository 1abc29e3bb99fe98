package food

import (
	"context"
	"errors"
	"strings"
	"time"

	"food-compare/internal/pkg/common"

	"go.uber.org/zap"
)

// ResolvePath 解析結果的來源路徑
type ResolvePath string

const (
	PathExact    ResolvePath = "exact"
	PathFuzzy    ResolvePath = "fuzzy"
	PathExternal ResolvePath = "external"
)

// Resolution 單筆解析結果
type Resolution struct {
	Record      FoodRecord  `json:"record"`
	DisplayName string      `json:"displayName"`
	Path        ResolvePath `json:"path"`
}

// Resolver 食物名稱解析：本地精確 → 本地模糊 → 外部資料庫 → 找不到
type Resolver struct {
	catalog         Catalog
	matcher         *Matcher
	ranker          *Ranker
	external        ExternalSource
	mapper          NutrientMapper
	externalTimeout time.Duration
}

// NewResolver 創建解析器，external 可為 nil（僅使用本地目錄）
func NewResolver(catalog Catalog, external ExternalSource, mapper NutrientMapper, externalTimeout time.Duration) *Resolver {
	return &Resolver{
		catalog:         catalog,
		matcher:         NewMatcher(catalog),
		ranker:          NewRanker(),
		external:        external,
		mapper:          mapper,
		externalTimeout: externalTimeout,
	}
}

// Resolve 將查詢解析為單筆食物資料
func (r *Resolver) Resolve(ctx context.Context, query string) (*Resolution, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return nil, common.ErrInvalidQuery
	}

	record, err := r.matcher.ExactMatch(ctx, q)
	if err != nil {
		common.LogWarn("本地精確查詢失敗", zap.String("query", q), zap.Error(err))
	}
	if record != nil {
		return &Resolution{Record: *record, DisplayName: record.Name, Path: PathExact}, nil
	}

	if matches := r.matcher.FuzzySearch(ctx, q); len(matches) > 0 {
		top := matches[0]
		return &Resolution{Record: top, DisplayName: NormalizeName(top.Name), Path: PathFuzzy}, nil
	}

	candidates := r.searchExternal(ctx, q)
	best, ok := SelectBestMatch(q, candidates)
	if !ok || r.mapper == nil {
		return nil, common.ErrFoodNotFound
	}

	// 以查詢名稱寫入，下一次同樣的查詢直接走精確路徑
	resolved := BuildRecord(best, r.mapper.Map(best))
	display := NormalizeName(best.Description)
	resolved.Name = CatalogName(query)
	if HasNutritionData(resolved.Macros) {
		if err := r.Save(ctx, &resolved); err != nil {
			common.LogWarn("外部資料寫入目錄失敗",
				zap.String("name", resolved.Name),
				zap.Error(err),
			)
		}
	} else {
		common.LogWarn("外部資料無營養數據，不寫入目錄", zap.String("name", resolved.Name))
	}

	common.LogInfo("外部資料解析成功",
		zap.String("query", q),
		zap.String("name", resolved.Name),
		zap.String("match", best.Description),
		zap.String("source", string(resolved.Source)),
	)
	return &Resolution{Record: resolved, DisplayName: display, Path: PathExternal}, nil
}

// Suggest 回傳建議清單：本地有結果時只用本地，否則使用外部排序
func (r *Resolver) Suggest(ctx context.Context, query string) ([]CandidateSuggestion, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return nil, common.ErrInvalidQuery
	}

	if matches := r.matcher.FuzzySearch(ctx, q); len(matches) > 0 {
		return localSuggestions(matches), nil
	}

	suggestions := r.ranker.Rank(q, r.searchExternal(ctx, q))
	if len(suggestions) == 0 {
		return nil, common.ErrFoodNotFound
	}
	return suggestions, nil
}

// Save 正規化、驗證後寫入目錄
func (r *Resolver) Save(ctx context.Context, record *FoodRecord) error {
	PrepareRecord(record)
	if err := ValidateRecord(record); err != nil {
		return err
	}
	if err := r.catalog.Upsert(ctx, record); err != nil {
		return common.ErrPersistenceWrite.Wrap(err)
	}
	return nil
}

// searchExternal 查詢外部資料庫，錯誤與逾時都視為沒有候選
func (r *Resolver) searchExternal(ctx context.Context, q string) []RawExternalFood {
	if r.external == nil {
		return nil
	}

	if r.externalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.externalTimeout)
		defer cancel()
	}

	candidates, err := r.external.Search(ctx, q)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			common.LogWarn("外部資料庫請求逾時", zap.String("query", q), zap.Duration("timeout", r.externalTimeout))
		} else {
			common.LogWarn("外部資料庫不可用", zap.String("query", q), zap.Error(common.ErrExternalUnavailable.Wrap(err)))
		}
		return nil
	}
	return candidates
}

func localSuggestions(records []FoodRecord) []CandidateSuggestion {
	seen := make(map[string]struct{}, len(records))
	out := make([]CandidateSuggestion, 0, len(records))
	for _, rec := range records {
		display := NormalizeName(rec.Name)
		key := strings.ToLower(display)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, CandidateSuggestion{DisplayName: display, OriginalName: rec.Name})
	}
	return out
}
