package ai

import (
	"context"

	"food-compare/internal/pkg/common"
)

// Completer 送出提示詞並取得模型文字
type Completer interface {
	Complete(ctx context.Context, purpose, prompt string) (string, error)
}

// Outcome AI 判斷結果
type Outcome int

const (
	// OutcomeUnknown 無法判斷或呼叫失敗，視為沒有資料
	OutcomeUnknown Outcome = iota
	// OutcomeValid 是食物且有營養資料
	OutcomeValid
	// OutcomeInvalid 不是食物
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Estimate AI 營養估算結果
type Estimate struct {
	Outcome Outcome
	Record  common.FoodRecord
	Summary *common.FoodSummary
}

// AI 呼叫用途，用於快取鍵與日誌
const (
	PurposeEstimate = "estimate"
	PurposeCompare  = "compare"
)
