package recipe

import (
	"strings"

	"pantry-chef/internal/pkg/common"
)

// 標準過敏原鍵值
const (
	AllergenEggs      = "eggs"
	AllergenDairy     = "dairy"
	AllergenFish      = "fish"
	AllergenShellfish = "shellfish"
	AllergenGluten    = "gluten"
	AllergenPeanuts   = "peanuts"
	AllergenTreeNuts  = "tree nuts"
	AllergenSoy       = "soy"
	AllergenSesame    = "sesame"
	AllergenMustard   = "mustard"
	AllergenCelery    = "celery"
)

var allergenAliases = map[string]string{
	"eier":           AllergenEggs,
	"ei":             AllergenEggs,
	"egg":            AllergenEggs,
	"laktose":        AllergenDairy,
	"lactose":        AllergenDairy,
	"milch":          AllergenDairy,
	"milk":           AllergenDairy,
	"fisch":          AllergenFish,
	"krebstiere":     AllergenShellfish,
	"schalentiere":   AllergenShellfish,
	"crustaceans":    AllergenShellfish,
	"erdnüsse":       AllergenPeanuts,
	"peanut":         AllergenPeanuts,
	"schalenfrüchte": AllergenTreeNuts,
	"nüsse":          AllergenTreeNuts,
	"nuts":           AllergenTreeNuts,
	"soja":           AllergenSoy,
	"sesam":          AllergenSesame,
	"senf":           AllergenMustard,
	"sellerie":       AllergenCelery,
}

var impliedAllergens = map[Diet][]string{
	DietVegan:       {AllergenEggs, AllergenDairy, AllergenFish, AllergenShellfish},
	DietVegetarian:  {AllergenFish, AllergenShellfish},
	DietGlutenFree:  {AllergenGluten},
	DietLactoseFree: {AllergenDairy},
}

// CanonicalAllergen 將別名轉為標準鍵值；未知的值只做修剪
func CanonicalAllergen(a string) string {
	a = strings.TrimSpace(a)
	if c, ok := allergenAliases[strings.ToLower(a)]; ok {
		return c
	}
	return a
}

// ImpliedAllergens 飲食限制隱含的過敏原
func ImpliedAllergens(diet Diet) []string {
	implied := impliedAllergens[diet]
	out := make([]string, len(implied))
	copy(out, implied)
	return out
}

// MergeAllergies 合併隱含與使用者選擇的過敏原，隱含項目在前，不分大小寫去重
func MergeAllergies(diet Diet, chosen []string) []string {
	all := ImpliedAllergens(diet)
	for _, a := range chosen {
		all = append(all, CanonicalAllergen(a))
	}
	return common.DedupeFold(all)
}

// RemoveAllergy 移除使用者選擇的過敏原；飲食限制隱含的項目無法移除
func RemoveAllergy(diet Diet, chosen []string, allergen string) ([]string, bool) {
	target := strings.ToLower(CanonicalAllergen(allergen))
	for _, implied := range impliedAllergens[diet] {
		if implied == target {
			return chosen, false
		}
	}

	out := make([]string, 0, len(chosen))
	removed := false
	for _, a := range chosen {
		if strings.ToLower(CanonicalAllergen(a)) == target {
			removed = true
			continue
		}
		out = append(out, a)
	}
	return out, removed
}
