package admin

import (
	"net/http"

	"food-compare/internal/api/handlers"
	"food-compare/internal/core/catalog"
	"food-compare/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 目錄維護 API
type Handler struct {
	store catalog.Store
}

// NewHandler 創建維護處理器
func NewHandler(store catalog.Store) *Handler {
	return &Handler{store: store}
}

// DeleteResponse 刪除結果
type DeleteResponse struct {
	Source    common.Source           `json:"source"`
	Deleted   int64                   `json:"deleted"`
	Remaining map[common.Source]int64 `json:"remaining"`
}

// HandleInitDB 建立資料表與索引
func (h *Handler) HandleInitDB(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.store.Migrate(ctx); err != nil {
		common.LogError("資料庫初始化失敗", zap.Error(err))
		handlers.RespondError(c, common.ErrServiceUnavailable.Wrap(err))
		return
	}

	counts, err := h.store.CountBySource(ctx)
	if err != nil {
		handlers.RespondError(c, common.ErrServiceUnavailable.Wrap(err))
		return
	}

	common.LogInfo("資料庫初始化完成")
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"counts": counts,
	})
}

// HandleDeleteFoods 依來源刪除食物：DELETE /admin/foods?source=usda
func (h *Handler) HandleDeleteFoods(c *gin.Context) {
	source, err := common.ParseSource(c.Query("source"))
	if err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	ctx := c.Request.Context()
	deleted, err := h.store.DeleteBySource(ctx, source)
	if err != nil {
		handlers.RespondError(c, common.ErrServiceUnavailable.Wrap(err))
		return
	}

	remaining, err := h.store.CountBySource(ctx)
	if err != nil {
		handlers.RespondError(c, common.ErrServiceUnavailable.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{
		Source:    source,
		Deleted:   deleted,
		Remaining: remaining,
	})
}
