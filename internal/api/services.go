package api

import (
	"context"
	"fmt"

	"pantry-chef/internal/core/llm"
	"pantry-chef/internal/core/pantry"
	"pantry-chef/internal/core/recipe"
	"pantry-chef/internal/core/share"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// Services 路由需要的服務
type Services struct {
	Recipe *recipe.Service
	Pantry *pantry.Service
	Codec  *share.Codec
}

// NewServices 依設定初始化服務；生成策略在此決定一次
func NewServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	generator := recipe.NewGenerator(llm.NewProvider(cfg.LLM))

	store, err := pantry.NewStore(ctx, cfg.Pantry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pantry store: %w", err)
	}

	codec := share.NewCodec(cfg.Share.BaseURL)

	common.LogInfo("Services initialized",
		zap.Bool("ai_enabled", cfg.LLM.Enabled()),
		zap.String("model", cfg.LLM.Model),
		zap.String("pantry_backend", cfg.Pantry.Backend),
		zap.String("share_base_url", cfg.Share.BaseURL),
	)

	return &Services{
		Recipe: recipe.NewService(generator, recipe.NewTracker()),
		Pantry: pantry.NewService(store, codec),
		Codec:  codec,
	}, nil
}

// Close 釋放服務持有的資源
func (s *Services) Close() error {
	if s == nil || s.Pantry == nil {
		return nil
	}
	return s.Pantry.Close()
}
