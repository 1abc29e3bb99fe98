package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food-compare/internal/core/food"
	"food-compare/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 以 Postgres 實作的食物目錄
type Repository struct {
	db *gorm.DB
}

// NewRepository 創建目錄儲存庫
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 轉義 LIKE 萬用字元
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// wordCountSQL 以空白切分後的字數
const wordCountSQL = `COALESCE(array_length(regexp_split_to_array(trim(name), '\s+'), 1), 0)`

// searchOrder 與 food.SortMatches 相同的排序規則（比對 lookup_key）
func searchOrder(query string) clause.OrderBy {
	q := food.FoldName(query)
	methods := `\m(` + strings.Join(food.CookingMethods, "|") + `)\M`
	return clause.OrderBy{
		Expression: clause.Expr{
			SQL: `CASE
				WHEN lookup_key = ? THEN 0
				WHEN ` + wordCountSQL + ` <= 2 THEN 1
				WHEN lookup_key ~ ? THEN 2
				WHEN lookup_key LIKE ? THEN 3
				WHEN lookup_key LIKE ? THEN 4
				ELSE 5
			END, LENGTH(lookup_key), ` + wordCountSQL + `, lookup_key`,
			Vars:               []interface{}{q, methods, escapeLike(q) + ", %", escapeLike(q) + " %"},
			WithoutParentheses: true,
		},
	}
}

// FindByName 以 lookup_key 查詢（不分大小寫與重音），找不到時回傳 nil, nil
func (r *Repository) FindByName(ctx context.Context, name string) (*common.FoodRecord, error) {
	var row foodRow
	err := r.findQuery(r.db.WithContext(ctx), name).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find food %q: %w", name, err)
	}
	record := row.toRecord()
	return &record, nil
}

func (r *Repository) findQuery(tx *gorm.DB, name string) *gorm.DB {
	return tx.Model(&foodRow{}).Where("lookup_key = ?", food.FoldName(name))
}

func (r *Repository) searchQuery(tx *gorm.DB, tokens []string, query string, limit int) *gorm.DB {
	tx = tx.Model(&foodRow{})
	for _, token := range tokens {
		tx = tx.Where("lookup_key LIKE ?", "%"+escapeLike(food.FoldName(token))+"%")
	}
	return tx.Clauses(searchOrder(query)).Limit(limit)
}

// Search 名稱包含所有 token 的資料，依排序規則取前 limit 筆
func (r *Repository) Search(ctx context.Context, tokens []string, query string, limit int) ([]common.FoodRecord, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	var rows []foodRow
	if err := r.searchQuery(r.db.WithContext(ctx), tokens, query, limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}

	records := make([]common.FoodRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toRecord()
	}
	return records, nil
}

// upsertColumns 衝突時覆蓋的欄位
var upsertColumns = []string{
	"lookup_key", "portion_size", "portions", "calories", "protein", "unsaturated_fat", "saturated_fat",
	"carbs", "sugars", "fibre", "source", "source_url", "updated_at",
}

func upsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}
}

// Upsert 以名稱為鍵寫入，衝突時以新資料覆蓋
func (r *Repository) Upsert(ctx context.Context, record *common.FoodRecord) error {
	row := toRow(record)
	if err := r.db.WithContext(ctx).Clauses(upsertClause()).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert food %q: %w", row.Name, err)
	}
	return nil
}

// DeleteBySource 刪除指定來源的資料
func (r *Repository) DeleteBySource(ctx context.Context, source common.Source) (int64, error) {
	result := r.db.WithContext(ctx).Where("source = ?", string(source)).Delete(&foodRow{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete %s foods: %w", source, result.Error)
	}

	common.LogInfo("已刪除來源資料",
		zap.String("source", string(source)),
		zap.Int64("deleted", result.RowsAffected),
	)
	return result.RowsAffected, nil
}

// CountBySource 各來源資料筆數
func (r *Repository) CountBySource(ctx context.Context) (map[common.Source]int64, error) {
	var rows []struct {
		Source string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&foodRow{}).
		Select("source, COUNT(*) AS count").
		Group("source").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count foods: %w", err)
	}

	counts := make(map[common.Source]int64, len(rows))
	for _, row := range rows {
		counts[common.Source(row.Source)] = row.Count
	}
	return counts, nil
}

// Migrate 建立 foods 資料表，並補上舊資料缺少的 lookup_key
func (r *Repository) Migrate(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&foodRow{}); err != nil {
		return fmt.Errorf("failed to migrate foods table: %w", err)
	}

	backfilled, err := r.backfillLookupKeys(db)
	if err != nil {
		return err
	}
	common.LogInfo("資料表初始化完成",
		zap.String("table", foodRow{}.TableName()),
		zap.Int("backfilled", backfilled),
	)
	return nil
}

// 每批補齊的筆數
const backfillBatchSize = 500

func (r *Repository) backfillLookupKeys(db *gorm.DB) (int, error) {
	var rows []foodRow
	total := 0
	result := db.Select("id", "name").Where("lookup_key = ''").
		FindInBatches(&rows, backfillBatchSize, func(_ *gorm.DB, _ int) error {
			for _, row := range rows {
				if err := db.Model(&foodRow{}).Where("id = ?", row.ID).
					Update("lookup_key", food.FoldName(row.Name)).Error; err != nil {
					return err
				}
			}
			total += len(rows)
			return nil
		})
	if result.Error != nil {
		return total, fmt.Errorf("failed to backfill lookup keys: %w", result.Error)
	}
	return total, nil
}

// Ping 檢查資料庫連線
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
