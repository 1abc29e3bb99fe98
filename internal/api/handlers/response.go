package handlers

import (
	"strings"

	"food-compare/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RespondError 將錯誤轉為 {code, message} 響應，5xx 錯誤會記錄到 gin context
func RespondError(c *gin.Context, err error) {
	ce := common.AsCustomError(err)
	if ce.Status >= 500 {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(ce.Status, ce.Response(gin.IsDebugging()))
}

// BindJSON 解析並驗證請求體，失敗時直接回應 400
func BindJSON(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return false
	}
	if err := v.Struct(req); err != nil {
		RespondError(c, common.ErrInvalidRequest.Wrap(validationMessage(err)))
		return false
	}
	return true
}

// validationMessage 將驗證錯誤整理為欄位清單
func validationMessage(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace()+" "+fe.Tag())
	}
	return common.NewValidationError("invalid fields: " + strings.Join(fields, ", "))
}
