package recipe

import (
	"context"
	"time"

	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜服務：生成、固定菜系、依份量換算
type Service struct {
	generator Generator
	tracker   *Tracker
}

// Submission 經追蹤的生成結果
type Submission struct {
	Recipe *Recipe
	Ticket Ticket
	// Stale 表示在完成前已有更新的請求，結果未被採用
	Stale bool
}

// NewService 創建新的食譜服務
func NewService(generator Generator, tracker *Tracker) *Service {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Service{
		generator: generator,
		tracker:   tracker,
	}
}

// Tracker 取得請求追蹤器
func (s *Service) Tracker() *Tracker {
	return s.tracker
}

// Generate 生成食譜；固定的菜系一律覆蓋，食材換算成要求的份量
func (s *Service) Generate(ctx context.Context, prefs Preferences) (*Recipe, error) {
	prefs.Allergies = MergeAllergies(prefs.Diet, prefs.Allergies)

	start := time.Now()
	result, err := s.generator.Generate(ctx, prefs)
	if err != nil {
		common.LogError("食譜生成失敗",
			zap.String("mode", string(prefs.Mode)),
			zap.String("tab", string(prefs.Tab)),
			zap.Error(err),
		)
		return nil, err
	}

	if cuisine, ok := prefs.PinnedCuisine(); ok {
		result.Cuisine = cuisine
	}
	result = ScaleRecipe(result, prefs.RequestedServings())

	common.LogInfo("食譜生成完成",
		zap.String("title", result.Title),
		zap.Int("servings", result.Servings),
		zap.Int("ingredients", len(result.Ingredients)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// Submit 以追蹤序號包裝 Generate；較新的請求已發出時，結果標記為過期且不寫入
func (s *Service) Submit(ctx context.Context, prefs Preferences) (*Submission, error) {
	ticket := s.tracker.Begin()
	result, err := s.Generate(ctx, prefs)
	if err != nil {
		return nil, err
	}

	sub := &Submission{Recipe: result, Ticket: ticket}
	if !s.tracker.Commit(ticket, result) {
		sub.Stale = true
		common.LogWarn("捨棄過期的生成結果", zap.String("ticket", ticket.String()))
	}
	return sub, nil
}
