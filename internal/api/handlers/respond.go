package handlers

import (
	"errors"
	"net/http"

	"pantry-chef/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BindJSON 解析請求體；過大的請求回傳 ErrRequestTooLarge，其餘為 ErrInvalidRequest
func BindJSON(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.ErrRequestTooLarge.Wrap(err)
		}
		return common.ErrInvalidRequest.Wrap(err)
	}
	return nil
}

// RespondError 以 {"error": "..."} 回應，狀態碼取自 CustomError
func RespondError(c *gin.Context, err error) {
	status := common.StatusOf(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求無效", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, common.ErrorResponse{Error: common.MessageOf(err)})
}
