package catalog

import (
	"time"

	"food-compare/internal/core/food"
	"food-compare/internal/pkg/common"
)

// foodRow foods 資料表
type foodRow struct {
	ID             uint             `gorm:"primaryKey"`
	Name           string           `gorm:"size:255;not null;uniqueIndex"`
	LookupKey      string           `gorm:"size:255;not null;default:'';index"`
	PortionSize    string           `gorm:"size:50;not null;default:100g"`
	Portions       []common.Portion `gorm:"type:jsonb;serializer:json"`
	Calories       int              `gorm:"not null"`
	Protein        float64          `gorm:"type:decimal(8,2);not null"`
	UnsaturatedFat float64          `gorm:"type:decimal(8,2);not null"`
	SaturatedFat   float64          `gorm:"type:decimal(8,2);not null"`
	Carbs          float64          `gorm:"type:decimal(8,2);not null"`
	Sugars         float64          `gorm:"type:decimal(8,2);not null"`
	Fibre          float64          `gorm:"type:decimal(8,2);not null"`
	Source         string           `gorm:"size:20;not null;index"`
	SourceURL      string           `gorm:"size:512"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName 資料表名稱
func (foodRow) TableName() string {
	return "foods"
}

func toRow(r *common.FoodRecord) foodRow {
	return foodRow{
		Name:           food.CatalogName(r.Name),
		LookupKey:      food.FoldName(r.Name),
		PortionSize:    r.PortionSize,
		Portions:       r.Portions,
		Calories:       r.Macros.Calories,
		Protein:        r.Macros.Protein,
		UnsaturatedFat: r.Macros.UnsaturatedFat,
		SaturatedFat:   r.Macros.SaturatedFat,
		Carbs:          r.Macros.Carbs,
		Sugars:         r.Macros.Sugars,
		Fibre:          r.Macros.Fibre,
		Source:         string(r.Source),
		SourceURL:      r.SourceURL,
	}
}

func (row foodRow) toRecord() common.FoodRecord {
	portionSize := row.PortionSize
	if portionSize == "" {
		portionSize = common.DefaultPortionSize
	}
	return common.FoodRecord{
		Name:        row.Name,
		PortionSize: portionSize,
		Portions:    food.EnsurePortions(row.Portions),
		Macros: common.FoodMacros{
			Calories:       row.Calories,
			Protein:        row.Protein,
			UnsaturatedFat: row.UnsaturatedFat,
			SaturatedFat:   row.SaturatedFat,
			Carbs:          row.Carbs,
			Sugars:         row.Sugars,
			Fibre:          row.Fibre,
		},
		Source:    common.Source(row.Source),
		SourceURL: row.SourceURL,
	}
}
