package recipe

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// 預設值
const (
	DefaultTitle   = "Recipe"
	DefaultCuisine = "International"
	DefaultTime    = 30
)

var (
	errInvalidJSON = errors.New("model reply is not valid JSON")
	errNotObject   = errors.New("model reply is not a JSON object")
)

// NormalizeRecipe 將模型輸出視為不可信資料，逐欄驗證並補上預設值
func NormalizeRecipe(raw string, prefs Preferences) (*Recipe, error) {
	if !gjson.Valid(raw) {
		return nil, errInvalidJSON
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("%w: got %s", errNotObject, parsed.Type)
	}

	title := scalarString(parsed.Get("title"))
	if title == "" {
		title = DefaultTitle
	}

	cuisine, pinned := prefs.PinnedCuisine()
	if !pinned {
		cuisine = scalarString(parsed.Get("cuisine"))
		if cuisine == "" {
			cuisine = DefaultCuisine
		}
	}

	var allergyNote *string
	if note := parsed.Get("allergyNote"); note.Type == gjson.String {
		s := note.Str
		allergyNote = &s
	}

	return &Recipe{
		Title:       title,
		Cuisine:     cuisine,
		Servings:    positiveInt(parsed.Get("servings"), prefs.RequestedServings()),
		Time:        positiveInt(parsed.Get("time"), DefaultTime),
		Ingredients: Canonicalize(parsed.Get("ingredients")),
		Authentic:   stringList(parsed.Get("authentic")),
		Steps:       stringList(parsed.Get("steps")),
		AllergyNote: allergyNote,
	}, nil
}

// Canonicalize 將任意 JSON 值轉為食材序列；非陣列一律為空序列
func Canonicalize(value gjson.Result) []Ingredient {
	if !value.IsArray() {
		return []Ingredient{}
	}
	entries := value.Array()
	out := make([]Ingredient, 0, len(entries))
	for _, entry := range entries {
		out = append(out, canonicalizeOne(entry))
	}
	return out
}

func canonicalizeOne(v gjson.Result) Ingredient {
	switch {
	case v.Type == gjson.String:
		return TextIngredient(v.Str)
	case v.IsObject():
		return StructuredIngredient(
			amountOf(v.Get("amount")),
			scalarString(v.Get("unit")),
			scalarString(v.Get("item")),
			scalarString(v.Get("note")),
		)
	case v.IsArray():
		parts := make([]string, 0)
		for _, e := range v.Array() {
			parts = append(parts, e.String())
		}
		return TextIngredient(strings.Join(parts, ","))
	default:
		return TextIngredient(strings.TrimSpace(v.Raw))
	}
}

func amountOf(v gjson.Result) *Amount {
	switch v.Type {
	case gjson.Number:
		f := v.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			// 超出 float64 範圍的數字保留原文，不當成可換算的數量
			return TextAmount(v.Raw)
		}
		return Number(f)
	case gjson.String:
		if strings.TrimSpace(v.Str) == "" {
			return nil
		}
		return TextAmount(v.Str)
	default:
		return nil
	}
}

// DisplayStrings 產生顯示用字串：數量、單位、名稱以空白連接，備註加括號
func DisplayStrings(ingredients []Ingredient) []string {
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, ing.Display())
	}
	return out
}

// NormalizeDisplay 直接由 JSON 文字產生顯示用字串
func NormalizeDisplay(raw string) []string {
	return DisplayStrings(Canonicalize(gjson.Parse(raw)))
}

// Display 單一食材的顯示字串
func (i Ingredient) Display() string {
	if !i.structured {
		return i.Text
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{i.Amount.String(), i.Unit, i.Item} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	s := strings.Join(parts, " ")
	if i.Note != "" {
		s += " (" + i.Note + ")"
	}
	return s
}

// scalarString 字串或數字轉為字串，其餘型別視為缺值
func scalarString(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}

func positiveInt(v gjson.Result, def int) int {
	if v.Type != gjson.Number && v.Type != gjson.String {
		return def
	}
	f := math.Round(v.Float())
	if math.IsNaN(f) || f < 1 || f > math.MaxInt32 {
		return def
	}
	return int(f)
}

// stringList 保留每個元素；非字串元素轉為其 JSON 文字，只略過 null
func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return []string{}
	}
	out := make([]string, 0)
	for _, e := range v.Array() {
		switch e.Type {
		case gjson.Null:
			continue
		case gjson.String:
			out = append(out, e.Str)
		default:
			out = append(out, strings.TrimSpace(e.Raw))
		}
	}
	return out
}
