package recipe

import "math"

// ScaleIngredient 依份量等比例換算數字數量，四捨五入到小數兩位；
// from 無效、與 to 相同或結果溢位時原樣回傳，文字形式的食材不換算
func ScaleIngredient(ing Ingredient, from, to int) Ingredient {
	if from <= 0 || from == to {
		return ing
	}
	if !ing.structured || ing.Amount == nil || !ing.Amount.Numeric {
		return ing
	}
	factor := float64(to) / float64(from)
	value := math.Round(ing.Amount.Value*factor*100) / 100
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return ing
	}
	scaled := ing
	scaled.Amount = Number(value)
	return scaled
}

// ScaleRecipe 以食譜本身的份量為基準換算所有食材，並將份量改為 to
func ScaleRecipe(r *Recipe, to int) *Recipe {
	if r == nil {
		return nil
	}
	out := *r
	out.Ingredients = make([]Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		out.Ingredients[i] = ScaleIngredient(ing, r.Servings, to)
	}
	if to > 0 {
		out.Servings = to
	}
	return &out
}
