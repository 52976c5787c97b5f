package pantry

import (
	"net/http"
	"strings"

	"pantry-chef/internal/api/handlers"
	pantryService "pantry-chef/internal/core/pantry"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SetItemRequest 設定單一食材
type SetItemRequest struct {
	Available *bool `json:"available"`
}

// ImportRequest 匯入分享連結或 token
type ImportRequest struct {
	Input string `json:"input"`
}

// Handler 食材櫃處理器
type Handler struct {
	service *pantryService.Service
}

// NewHandler 創建食材櫃處理器
func NewHandler(service *pantryService.Service) *Handler {
	return &Handler{service: service}
}

// HandleGet 目前的選擇
func (h *Handler) HandleGet(c *gin.Context) {
	sel, err := h.service.Selection(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sel)
}

// HandleReplace 整個覆寫選擇
func (h *Handler) HandleReplace(c *gin.Context) {
	var sel map[string]bool
	if err := handlers.BindJSON(c, &sel); err != nil {
		handlers.RespondError(c, err)
		return
	}

	saved, err := h.service.Replace(c.Request.Context(), sel)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// HandleSetItem 設定單一食材是否可用
func (h *Handler) HandleSetItem(c *gin.Context) {
	var req SetItemRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}
	if req.Available == nil {
		handlers.RespondError(c, common.NewValidationError("available is required"))
		return
	}

	sel, err := h.service.Set(c.Request.Context(), c.Param("id"), *req.Available)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sel)
}

// HandleImport 匯入分享內容並保存
func (h *Handler) HandleImport(c *gin.Context) {
	var req ImportRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	result, err := h.service.Import(c.Request.Context(), req.Input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleShare 產生分享連結；來源取 origin 參數，未指定時用設定的 share.base_url
func (h *Handler) HandleShare(c *gin.Context) {
	origin := strings.TrimSpace(c.Query("origin"))

	links, err := h.service.ShareLinks(c.Request.Context(), origin)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}
