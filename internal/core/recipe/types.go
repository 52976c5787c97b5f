package recipe

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Mode 烹飪模式
type Mode string

const (
	ModeAutomatic   Mode = "automatic"
	ModeSimple      Mode = "simple"
	ModeTraditional Mode = "traditional"
	ModeMealPrep    Mode = "meal-prep"
)

// ParseMode 解析烹飪模式，兼容舊版德文標籤；無法辨識時為 automatic
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "einfach", "easy":
		return ModeSimple
	case "traditional", "traditionell":
		return ModeTraditional
	case "meal-prep", "mealprep", "meal_prep", "vorkochen":
		return ModeMealPrep
	default:
		return ModeAutomatic
	}
}

// Diet 飲食限制
type Diet string

const (
	DietNone        Diet = "none"
	DietVegetarian  Diet = "vegetarian"
	DietVegan       Diet = "vegan"
	DietPescatarian Diet = "pescatarian"
	DietGlutenFree  Diet = "gluten-free"
	DietLactoseFree Diet = "lactose-free"
	DietHighProtein Diet = "high-protein"
	DietLowCalorie  Diet = "low-calorie"
	DietCarnivore   Diet = "carnivore"
)

var dietAliases = map[string]Diet{
	"":              DietNone,
	"none":          DietNone,
	"auto":          DietNone,
	"keine vorgabe": DietNone,
	"vegetarian":    DietVegetarian,
	"vegetarisch":   DietVegetarian,
	"vegan":         DietVegan,
	"pescatarian":   DietPescatarian,
	"pescetarisch":  DietPescatarian,
	"gluten-free":   DietGlutenFree,
	"glutenfrei":    DietGlutenFree,
	"lactose-free":  DietLactoseFree,
	"laktosefrei":   DietLactoseFree,
	"high-protein":  DietHighProtein,
	"proteinreich":  DietHighProtein,
	"low-calorie":   DietLowCalorie,
	"kalorienarm":   DietLowCalorie,
	"carnivore":     DietCarnivore,
	"carnivor":      DietCarnivore,
}

// ParseDiet 解析飲食限制；未知的值原樣保留（小寫）
func ParseDiet(s string) Diet {
	key := strings.ToLower(strings.TrimSpace(s))
	if d, ok := dietAliases[key]; ok {
		return d
	}
	return Diet(key)
}

// Tab 請求來源分頁
type Tab string

const (
	TabPantry Tab = "pantry"
	TabQuery  Tab = "query"
)

// ParseTab 解析來源分頁，預設為 pantry
func ParseTab(s string) Tab {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "query", "search", "suche":
		return TabQuery
	default:
		return TabPantry
	}
}

// CuisineAuto 表示由系統自動決定菜系
const CuisineAuto = "auto"

// DefaultServings 未指定份量時的預設值
const DefaultServings = 2

// GenerateRequest 生成食譜的請求體
type GenerateRequest struct {
	Mode      string          `json:"mode"`
	Servings  int             `json:"servings"`
	Diet      string          `json:"diet"`
	Allergies []string        `json:"allergies"`
	Cuisine   string          `json:"cuisine"`
	Extra     string          `json:"extra"`
	Pantry    map[string]bool `json:"pantry"`
	Query     string          `json:"query"`
	Tab       string          `json:"tab"`
}

// Preferences 單次請求的偏好設定，建立後不再修改
type Preferences struct {
	Mode      Mode
	Diet      Diet
	Allergies []string
	Cuisine   string
	Servings  int
	Extra     string
	Query     string
	Pantry    map[string]bool
	Tab       Tab
}

// NewPreferences 由請求體建立偏好；過敏原一律合併飲食限制隱含的項目
func NewPreferences(req GenerateRequest) Preferences {
	diet := ParseDiet(req.Diet)
	pantry := make(map[string]bool, len(req.Pantry))
	for k, v := range req.Pantry {
		pantry[k] = v
	}
	return Preferences{
		Mode:      ParseMode(req.Mode),
		Diet:      diet,
		Allergies: MergeAllergies(diet, req.Allergies),
		Cuisine:   normalizeCuisine(req.Cuisine),
		Servings:  req.Servings,
		Extra:     req.Extra,
		Query:     req.Query,
		Pantry:    pantry,
		Tab:       ParseTab(req.Tab),
	}
}

func normalizeCuisine(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "auto", "automatic", "alle küchen (auto)":
		return CuisineAuto
	}
	return s
}

// PinnedCuisine 使用者指定的菜系
func (p Preferences) PinnedCuisine() (string, bool) {
	if p.Cuisine == "" || p.Cuisine == CuisineAuto {
		return "", false
	}
	return p.Cuisine, true
}

// RequestedServings 使用者要求的份量，未指定時為 DefaultServings
func (p Preferences) RequestedServings() int {
	if p.Servings > 0 {
		return p.Servings
	}
	return DefaultServings
}

// Amount 食材數量，可能是數字或文字
type Amount struct {
	Value   float64
	Text    string
	Numeric bool
}

// Number 建立數字數量
func Number(v float64) *Amount {
	return &Amount{Value: v, Numeric: true}
}

// TextAmount 建立文字數量
func TextAmount(s string) *Amount {
	return &Amount{Text: s}
}

// String 顯示用字串
func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	if a.Numeric {
		if a.Value == 0 {
			return ""
		}
		return strconv.FormatFloat(a.Value, 'f', -1, 64)
	}
	return a.Text
}

// MarshalJSON 數字輸出為 JSON number，文字與非有限數字輸出為 JSON string
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Numeric {
		if math.IsInf(a.Value, 0) || math.IsNaN(a.Value) {
			return json.Marshal(strconv.FormatFloat(a.Value, 'f', -1, 64))
		}
		return []byte(strconv.FormatFloat(a.Value, 'f', -1, 64)), nil
	}
	return json.Marshal(a.Text)
}

// Ingredient 食材，字串或結構化兩種形式擇一
type Ingredient struct {
	Text   string
	Amount *Amount
	Unit   string
	Item   string
	Note   string

	structured bool
}

// TextIngredient 建立字串形式的食材
func TextIngredient(s string) Ingredient {
	return Ingredient{Text: s}
}

// StructuredIngredient 建立結構化食材
func StructuredIngredient(amount *Amount, unit, item, note string) Ingredient {
	return Ingredient{Amount: amount, Unit: unit, Item: item, Note: note, structured: true}
}

// IsStructured 是否為結構化形式
func (i Ingredient) IsStructured() bool {
	return i.structured
}

type structuredJSON struct {
	Amount *Amount `json:"amount,omitempty"`
	Unit   string  `json:"unit,omitempty"`
	Item   string  `json:"item,omitempty"`
	Note   string  `json:"note,omitempty"`
}

// MarshalJSON 依形式輸出字串或物件
func (i Ingredient) MarshalJSON() ([]byte, error) {
	if !i.structured {
		return json.Marshal(i.Text)
	}
	return json.Marshal(structuredJSON{Amount: i.Amount, Unit: i.Unit, Item: i.Item, Note: i.Note})
}

// UnmarshalJSON 與模型輸出同樣寬鬆地解析
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	*i = canonicalizeOne(gjson.ParseBytes(data))
	return nil
}

// Recipe 標準化後的食譜
type Recipe struct {
	Title       string       `json:"title"`
	Cuisine     string       `json:"cuisine"`
	Servings    int          `json:"servings"`
	Time        int          `json:"time"`
	Ingredients []Ingredient `json:"ingredients"`
	Authentic   []string     `json:"authentic"`
	Steps       []string     `json:"steps"`
	AllergyNote *string      `json:"allergyNote"`
}
