package recipe

import (
	"context"
	"fmt"
	"strings"

	"pantry-chef/internal/core/llm"
	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// Generator 食譜生成策略
type Generator interface {
	Generate(ctx context.Context, prefs Preferences) (*Recipe, error)
}

// NewGenerator 依是否有模型可用選擇生成策略，建立後不再切換
func NewGenerator(provider llm.Provider) Generator {
	if provider == nil {
		common.LogInfo("未設定模型憑證，使用固定範本生成食譜")
		return &FallbackGenerator{}
	}
	common.LogInfo("使用模型生成食譜", zap.String("model", provider.Model()))
	return NewAIGenerator(provider)
}

// AIGenerator 呼叫模型生成食譜
// --------------------------------------------------
type AIGenerator struct {
	provider llm.Provider
}

// NewAIGenerator 創建模型生成器
func NewAIGenerator(provider llm.Provider) *AIGenerator {
	return &AIGenerator{provider: provider}
}

// Generate 單次呼叫模型並驗證輸出；任何失敗都回傳 ErrGenerationFailed，不回傳部分結果
func (g *AIGenerator) Generate(ctx context.Context, prefs Preferences) (*Recipe, error) {
	prompt := BuildPrompt(prefs)

	resp, err := g.provider.Complete(ctx, &llm.Request{
		System:      prompt.System,
		User:        prompt.User,
		Temperature: prompt.Temperature,
	})
	if err != nil {
		return nil, common.ErrGenerationFailed.Wrap(fmt.Errorf("AI service error: %w", err))
	}

	content := ExtractJSON(resp.Content)
	common.LogDebug("AI 回應內容 (recipe/generate)",
		zap.Int("ai_response_length", len(resp.Content)),
		zap.Int("extracted_length", len(content)),
		zap.Bool("complex", prompt.Complex),
	)

	result, err := NormalizeRecipe(content, prefs)
	if err != nil {
		return nil, common.ErrGenerationFailed.Wrap(fmt.Errorf("failed to parse AI response: %w", err))
	}
	return result, nil
}

// FallbackGenerator 沒有模型時以固定範本生成食譜
// --------------------------------------------------
type FallbackGenerator struct{}

var (
	fallbackBaseIngredients = []string{"2 tbsp oil", "1 onion, finely chopped", "1 clove garlic, minced"}

	fallbackSimpleSteps = []string{
		"Heat the oil, sweat the onion and briefly cook the garlic.",
		"Add the main ingredients, season and cook briefly.",
		"Taste, adjust the seasoning and serve.",
	}
	fallbackComplexSteps = []string{
		"Prepare the full mise en place.",
		"Start the base (stock, dough or sauce) and continue as the recipe requires.",
		"Cook, rest, finish and plate.",
	}
	fallbackDefaultSteps = []string{
		"Mise en place: prepare all ingredients.",
		"Heat the oil, cook the onion until translucent, briefly add the garlic.",
		"Add the main ingredients and cook for 15–25 minutes.",
		"Season with herbs and spices to taste and serve.",
	}
)

const (
	fallbackTitle         = "Home recipe"
	fallbackTitleSuffix   = " home recipe"
	fallbackAuthenticNote = "Use authentic regional ingredients where possible."
)

// Generate 不做任何外部呼叫，結果只取決於偏好
func (g *FallbackGenerator) Generate(_ context.Context, prefs Preferences) (*Recipe, error) {
	isComplex := IsComplex(prefs)
	pinnedCuisine, pinned := prefs.PinnedCuisine()

	title := ""
	if prefs.Tab == TabQuery {
		title = strings.TrimSpace(prefs.Query)
	}
	generic := false
	if title == "" {
		generic = true
		if pinned {
			title = pinnedCuisine + fallbackTitleSuffix
		} else {
			title = fallbackTitle
		}
	}

	cuisine := prefs.Cuisine
	switch {
	case pinned:
		cuisine = pinnedCuisine
	case generic:
		cuisine = DefaultCuisine
	}

	// 未填為預設份量，負數至少一份
	servings := prefs.Servings
	if servings == 0 {
		servings = DefaultServings
	}
	if servings < 1 {
		servings = 1
	}

	minutes := 40
	switch {
	case prefs.Mode == ModeSimple:
		minutes = 20
	case isComplex:
		minutes = 120
	}

	ingredients := make([]Ingredient, 0, len(fallbackBaseIngredients))
	for _, s := range fallbackBaseIngredients {
		ingredients = append(ingredients, TextIngredient(s))
	}
	if prefs.Tab == TabPantry {
		for _, s := range strings.Split(prefs.Extra, ",") {
			if s = strings.TrimSpace(s); s != "" {
				ingredients = append(ingredients, TextIngredient(s))
			}
		}
	}

	authentic := []string{}
	if prefs.Mode == ModeTraditional {
		authentic = append(authentic, fallbackAuthenticNote)
	}

	var steps []string
	switch {
	case prefs.Mode == ModeSimple:
		steps = fallbackSimpleSteps
	case isComplex:
		steps = fallbackComplexSteps
	default:
		steps = fallbackDefaultSteps
	}

	var allergyNote *string
	if len(prefs.Allergies) > 0 {
		note := common.JoinList(prefs.Allergies)
		allergyNote = &note
	}

	return &Recipe{
		Title:       title,
		Cuisine:     cuisine,
		Servings:    servings,
		Time:        minutes,
		Ingredients: ingredients,
		Authentic:   authentic,
		Steps:       append([]string(nil), steps...),
		AllergyNote: allergyNote,
	}, nil
}
