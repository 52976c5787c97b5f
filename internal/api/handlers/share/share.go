package share

import (
	"fmt"
	"net/http"

	"pantry-chef/internal/api/handlers"
	shareCodec "pantry-chef/internal/core/share"

	"github.com/gin-gonic/gin"
)

// EncodeRequest 編碼請求
type EncodeRequest struct {
	Selection map[string]bool `json:"selection"`
	Origin    string          `json:"origin"`
}

// EncodeResponse 兩種編碼方式的結果
type EncodeResponse struct {
	Token    string `json:"token"`
	TokenURL string `json:"tokenUrl"`
	Payload  string `json:"payload"`
	MapURL   string `json:"mapUrl"`
}

// DecodeResponse 解碼結果；無法辨識時 scheme 為空字串
type DecodeResponse struct {
	Scheme    shareCodec.Scheme `json:"scheme"`
	Selection map[string]bool   `json:"selection"`
	Selected  []string          `json:"selected"`
}

// Handler 分享連結處理器
type Handler struct {
	codec *shareCodec.Codec
}

// NewHandler 創建分享連結處理器
func NewHandler(codec *shareCodec.Codec) *Handler {
	return &Handler{codec: codec}
}

// HandleDecode 解碼網址或 token，永遠回傳 200
func (h *Handler) HandleDecode(c *gin.Context) {
	scheme, sel := shareCodec.Decode(c.Query("input"))
	c.JSON(http.StatusOK, DecodeResponse{
		Scheme:    scheme,
		Selection: sel,
		Selected:  shareCodec.SelectedIDs(sel),
	})
}

// HandleEncode 以兩種方式編碼選擇
func (h *Handler) HandleEncode(c *gin.Context) {
	var req EncodeRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	selected := shareCodec.SelectedIDs(req.Selection)
	token, err := shareCodec.EncodeToken(selected)
	if err != nil {
		handlers.RespondError(c, fmt.Errorf("failed to encode token: %w", err))
		return
	}
	payload, err := shareCodec.EncodeMap(req.Selection)
	if err != nil {
		handlers.RespondError(c, fmt.Errorf("failed to encode map: %w", err))
		return
	}

	origin := h.codec.Origin(req.Origin)
	c.JSON(http.StatusOK, EncodeResponse{
		Token:    token,
		TokenURL: origin + "/?" + shareCodec.TokenParam + "=" + token,
		Payload:  payload,
		MapURL:   origin + "/?" + shareCodec.MapParam + "=" + payload,
	})
}
