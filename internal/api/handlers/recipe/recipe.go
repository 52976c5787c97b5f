package recipe

import (
	"fmt"
	"net/http"

	"pantry-chef/internal/api/handlers"
	recipeService "pantry-chef/internal/core/recipe"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 回應標頭
const (
	HeaderTicket = "X-Generation-Ticket"
	HeaderStale  = "X-Generation-Stale"
)

// ScaleRequest 依份量換算已顯示的食譜
type ScaleRequest struct {
	Recipe   recipeService.Recipe `json:"recipe"`
	Servings int                  `json:"servings"`
}

// Handler 食譜處理器
type Handler struct {
	service *recipeService.Service
}

// NewHandler 創建食譜處理器
func NewHandler(service *recipeService.Service) *Handler {
	return &Handler{service: service}
}

// HandleGenerate 生成食譜
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := requestid.Get(c)

	var req recipeService.GenerateRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	prefs := recipeService.NewPreferences(req)
	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.String("mode", string(prefs.Mode)),
		zap.String("tab", string(prefs.Tab)),
		zap.String("diet", string(prefs.Diet)),
		zap.Int("servings", prefs.RequestedServings()),
	)

	sub, err := h.service.Submit(c.Request.Context(), prefs)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.Header(HeaderTicket, sub.Ticket.String())
	if sub.Stale {
		c.Header(HeaderStale, "true")
	}
	c.JSON(http.StatusOK, sub.Recipe)
}

// HandleScale 將食譜換算成指定份量
func (h *Handler) HandleScale(c *gin.Context) {
	var req ScaleRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}
	if req.Servings <= 0 {
		handlers.RespondError(c, common.NewValidationError("servings must be positive"))
		return
	}

	c.JSON(http.StatusOK, recipeService.ScaleRecipe(&req.Recipe, req.Servings))
}

// HandleLatest 取得最近一次採用的生成結果
func (h *Handler) HandleLatest(c *gin.Context) {
	latest, ticket, ok := h.service.Tracker().Latest()
	if !ok {
		handlers.RespondError(c, common.ErrNotFound.Wrap(fmt.Errorf("no recipe generated yet")))
		return
	}
	c.Header(HeaderTicket, ticket.String())
	c.JSON(http.StatusOK, latest)
}
