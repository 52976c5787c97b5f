package recipe

import (
	"fmt"
	"sort"
	"strings"
)

// 溫度：複雜料理較低以減少偏離技法
const (
	TemperatureComplex = 0.5
	TemperatureDefault = 0.6
)

// SystemInstruction 固定的系統指令
const SystemInstruction = "You are a world-class chef and food editor. Respond only with valid JSON matching the schema."

// complexDishes 需要大量工序的菜名
var complexDishes = []string{
	"beef wellington", "wellington",
	"biryani", "ramen", "pho", "mole",
	"coq au vin", "cassoulet", "paella",
	"sourdough", "sauerteig", "cannoli", "croissant", "pastéis de nata",
	"bibimbap", "peking duck", "pekingente", "duck à l'orange",
	"tamales", "barbacoa", "osso buco",
}

const recipeSchema = `Schema: {
  "title": string,
  "cuisine": string,
  "servings": number,
  "time": number,
  "ingredients": (string | {"amount": number | string, "unit": string, "item": string, "note": string})[],
  "authentic": string[],
  "steps": string[],
  "allergyNote": string | null
}`

// Prompt 提示詞建構結果
type Prompt struct {
	Complex     bool
	Temperature float64
	System      string
	User        string
}

// IsComplex 判斷是否為複雜料理
func IsComplex(prefs Preferences) bool {
	if prefs.Mode == ModeTraditional {
		return true
	}
	query := strings.ToLower(prefs.Query)
	if query == "" {
		return false
	}
	for _, dish := range complexDishes {
		if strings.Contains(query, dish) {
			return true
		}
	}
	return false
}

// BuildPrompt 依偏好建構提示詞，同樣輸入必定得到同樣輸出
func BuildPrompt(prefs Preferences) Prompt {
	isComplex := IsComplex(prefs)
	temperature := TemperatureDefault
	if isComplex {
		temperature = TemperatureComplex
	}

	return Prompt{
		Complex:     isComplex,
		Temperature: temperature,
		System:      SystemInstruction,
		User:        userInstruction(prefs, directives(prefs, isComplex)),
	}
}

func directives(prefs Preferences, isComplex bool) string {
	var hints []string

	switch {
	case isComplex:
		hints = append(hints, "Provide 20–40 precise steps with exact times, temperatures and rest periods, with components kept separate (e.g. dough, filling, sauce). Also include professional tips, common pitfalls and plating notes.")
	case prefs.Mode == ModeSimple:
		hints = append(hints, "Give a short, correct recipe with only the essential steps and no unnecessary detail.")
	default:
		hints = append(hints, "Give 8–16 clear, precise steps.")
	}

	if prefs.Mode == ModeMealPrep {
		hints = append(hints, "Optimize for meal prep: keeps for 3–4 days, include storage and reheating notes.")
	}
	if prefs.Diet != "" && prefs.Diet != DietNone {
		hints = append(hints, fmt.Sprintf("Respect the diet: %s.", prefs.Diet))
	}
	if len(prefs.Allergies) > 0 {
		hints = append(hints, fmt.Sprintf("Avoid these allergens: %s.", strings.Join(prefs.Allergies, ", ")))
	}

	hints = append(hints,
		"Respond with pure JSON only (no Markdown, no explanations).",
		recipeSchema,
		"List under 'authentic' only items that are actually used in the recipe.",
		"Never set 'cuisine' to 'Fusion' when a clear cuisine is recognizable or was chosen.",
	)
	return strings.Join(hints, " ")
}

func userInstruction(prefs Preferences, hints string) string {
	if prefs.Tab == TabQuery && strings.TrimSpace(prefs.Query) != "" {
		return fmt.Sprintf("Create a recipe for: \"%s\". %s", prefs.Query, hints)
	}

	pantry := "(empty)"
	if items := availableItems(prefs.Pantry); len(items) > 0 {
		pantry = strings.Join(items, ", ")
	}
	extra := strings.TrimSpace(prefs.Extra)
	if extra == "" {
		extra = "(none)"
	}
	cuisine, pinned := prefs.PinnedCuisine()
	if !pinned {
		cuisine = "(choose automatically)"
	}

	var b strings.Builder
	b.WriteString("Create a recipe based on the pantry and preferences.\n")
	fmt.Fprintf(&b, "Pantry: %s.\n", pantry)
	fmt.Fprintf(&b, "Extra ingredients: %s.\n", extra)
	fmt.Fprintf(&b, "Cuisine: %s.\n", cuisine)
	fmt.Fprintf(&b, "Servings: %d.\n", prefs.RequestedServings())
	b.WriteString(hints)
	return b.String()
}

// availableItems 可用的食材名稱，排序後輸出
func availableItems(pantry map[string]bool) []string {
	items := make([]string, 0, len(pantry))
	for name, ok := range pantry {
		if ok {
			items = append(items, name)
		}
	}
	sort.Strings(items)
	return items
}
