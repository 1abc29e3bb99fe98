package food

import (
	"errors"
	"net/http"

	"food-compare/internal/api/handlers"
	"food-compare/internal/api/middleware"
	"food-compare/internal/core/ai"
	foodCore "food-compare/internal/core/food"
	"food-compare/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler 食物相關 API
type Handler struct {
	resolver       Resolver
	estimator      Estimator
	comparer       Comparer
	invalidLimiter *middleware.ClientLimiter
	validator      *validator.Validate
}

// NewHandler 創建處理器，estimator 為 nil 時不使用 AI 估算
func NewHandler(resolver Resolver, estimator Estimator, comparer Comparer, invalidLimiter *middleware.ClientLimiter, validator *validator.Validate) *Handler {
	return &Handler{
		resolver:       resolver,
		estimator:      estimator,
		comparer:       comparer,
		invalidLimiter: invalidLimiter,
		validator:      validator,
	}
}

// HandleFood 處理 POST /food：目錄、外部資料庫、AI 估算依序嘗試
func (h *Handler) HandleFood(c *gin.Context) {
	var req FoodRequest
	if !handlers.BindJSON(c, h.validator, &req) {
		return
	}

	ctx := c.Request.Context()
	res, err := h.resolver.Resolve(ctx, req.FoodName)
	if err == nil {
		c.JSON(http.StatusOK, newFoodView(res.Record, res.DisplayName, string(res.Path), nil))
		return
	}
	if !errors.Is(err, common.ErrFoodNotFound) || h.estimator == nil {
		handlers.RespondError(c, err)
		return
	}

	h.estimate(c, req.FoodName)
}

func (h *Handler) estimate(c *gin.Context, name string) {
	ip := c.ClientIP()
	if h.invalidLimiter.Exhausted(ip) {
		middleware.SetRetryAfter(c, h.invalidLimiter.RetryAfter(ip))
		handlers.RespondError(c, common.ErrTooManyRequests)
		return
	}

	ctx := c.Request.Context()
	est, err := h.estimator.Estimate(ctx, name)

	switch est.Outcome {
	case ai.OutcomeValid:
		record := est.Record
		if foodCore.HasNutritionData(record.Macros) {
			if err := h.resolver.Save(ctx, &record); err != nil {
				common.LogWarn("AI 估算結果寫入失敗",
					zap.String("food", record.Name),
					zap.String("request_id", requestid.Get(c)),
					zap.Error(err),
				)
			}
		} else {
			common.LogWarn("AI 估算結果沒有營養資料，不寫入目錄", zap.String("food", record.Name))
		}
		c.JSON(http.StatusOK, newFoodView(record, common.CapitalizeFirst(record.Name), PathAI, est.Summary))

	case ai.OutcomeInvalid:
		if !h.invalidLimiter.Allow(ip) {
			middleware.SetRetryAfter(c, h.invalidLimiter.RetryAfter(ip))
			handlers.RespondError(c, common.ErrTooManyRequests)
			return
		}
		common.LogInfo("非食物輸入",
			zap.String("food", name),
			zap.String("ip", ip),
			zap.String("request_id", requestid.Get(c)),
		)
		handlers.RespondError(c, common.ErrNotAFood)

	default:
		if err != nil {
			common.LogWarn("AI 估算失敗",
				zap.String("food", name),
				zap.String("request_id", requestid.Get(c)),
				zap.Error(err),
			)
		}
		handlers.RespondError(c, common.ErrFoodNotFound)
	}
}

// HandleSuggestions 處理 POST /food/suggestions
func (h *Handler) HandleSuggestions(c *gin.Context) {
	var req FoodRequest
	if !handlers.BindJSON(c, h.validator, &req) {
		return
	}

	suggestions, err := h.resolver.Suggest(c.Request.Context(), req.FoodName)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

// HandleCompare 處理 POST /compare
func (h *Handler) HandleCompare(c *gin.Context) {
	var req CompareRequest
	if !handlers.BindJSON(c, h.validator, &req) {
		return
	}

	foods := make([]common.FoodRecord, len(req.Foods))
	for i, f := range req.Foods {
		foods[i] = common.FoodRecord{
			Name:        f.Name,
			PortionSize: f.PortionSize,
			Macros:      f.Macros,
			Source:      f.Source,
		}
	}

	winner, err := h.comparer.Compare(c.Request.Context(), foods)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("比較完成",
		zap.Int("foods", len(foods)),
		zap.String("winner", winner.FoodName),
	)
	c.JSON(http.StatusOK, winner)
}
