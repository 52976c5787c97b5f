package recipe

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced block", "here you go:\n```json\n{\"title\":\"X\"}\n```", `{"title":"X"}`},
		{"fence tag ignores case", "```JSON\n{\"a\":1}\n``` trailing", `{"a":1}`},
		{"surrounding commentary", `Sure! {"title":"X"} enjoy`, `{"title":"X"}`},
		{"nested braces", `x {"a":{"b":1}} y`, `{"a":{"b":1}}`},
		{"plain text unchanged", "no structured data here", "no structured data here"},
		{"closing brace before opening", "} then {", "} then {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestNormalizeRecipe_Defaults(t *testing.T) {
	prefs := NewPreferences(GenerateRequest{Servings: 3})

	r, err := NormalizeRecipe(`{"title":"","ingredients":"oops","steps":null,"allergyNote":5}`, prefs)
	require.NoError(t, err)

	assert.Equal(t, DefaultTitle, r.Title)
	assert.Equal(t, DefaultCuisine, r.Cuisine)
	assert.Equal(t, 3, r.Servings)
	assert.Equal(t, DefaultTime, r.Time)
	assert.Empty(t, r.Ingredients)
	assert.NotNil(t, r.Ingredients)
	assert.Equal(t, []string{}, r.Authentic)
	assert.Equal(t, []string{}, r.Steps)
	assert.Nil(t, r.AllergyNote)
}

func TestNormalizeRecipe_Coercion(t *testing.T) {
	prefs := NewPreferences(GenerateRequest{})

	r, err := NormalizeRecipe(`{
		"title": "Pad Thai",
		"cuisine": "Thai",
		"servings": "4",
		"time": 25.4,
		"ingredients": ["2 eggs", {"amount": 200, "unit": "g", "item": "rice noodles", "brand": "x"}, 7],
		"authentic": ["tamarind"],
		"steps": ["Soak", "Fry"],
		"allergyNote": "contains eggs"
	}`, prefs)
	require.NoError(t, err)

	assert.Equal(t, "Pad Thai", r.Title)
	assert.Equal(t, "Thai", r.Cuisine)
	assert.Equal(t, 4, r.Servings)
	assert.Equal(t, 25, r.Time)
	require.Len(t, r.Ingredients, 3)
	assert.Equal(t, TextIngredient("2 eggs"), r.Ingredients[0])
	assert.Equal(t, StructuredIngredient(Number(200), "g", "rice noodles", ""), r.Ingredients[1])
	assert.Equal(t, TextIngredient("7"), r.Ingredients[2])
	assert.Equal(t, []string{"tamarind"}, r.Authentic)
	assert.Equal(t, []string{"Soak", "Fry"}, r.Steps)
	require.NotNil(t, r.AllergyNote)
	assert.Equal(t, "contains eggs", *r.AllergyNote)
}

func TestNormalizeRecipe_OutOfRangeNumbers(t *testing.T) {
	prefs := NewPreferences(GenerateRequest{})

	r, err := NormalizeRecipe(`{"servings":1e999,"time":-1e999,"ingredients":[{"amount":1e999,"unit":"g","item":"salt"}]}`, prefs)
	require.NoError(t, err)

	assert.Equal(t, DefaultServings, r.Servings)
	assert.Equal(t, DefaultTime, r.Time)
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, StructuredIngredient(TextAmount("1e999"), "g", "salt", ""), r.Ingredients[0])

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"amount":"1e999","unit":"g","item":"salt"}`)
}

func TestAmount_NonFiniteMarshalsAsString(t *testing.T) {
	data, err := json.Marshal(StructuredIngredient(Number(math.Inf(1)), "g", "salt", ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"+Inf","unit":"g","item":"salt"}`, string(data))
}

func TestNormalizeRecipe_KeepsEveryListEntry(t *testing.T) {
	prefs := NewPreferences(GenerateRequest{})

	r, err := NormalizeRecipe(`{"steps":["Mix","",{"do":"Bake"},3,null],"authentic":[["miso","dashi"],true]}`, prefs)
	require.NoError(t, err)

	assert.Equal(t, []string{"Mix", "", `{"do":"Bake"}`, "3"}, r.Steps)
	assert.Equal(t, []string{`["miso","dashi"]`, "true"}, r.Authentic)
}

func TestNormalizeRecipe_PinnedCuisineWins(t *testing.T) {
	prefs := NewPreferences(GenerateRequest{Cuisine: "Mexican"})
	r, err := NormalizeRecipe(`{"cuisine":"Fusion"}`, prefs)
	require.NoError(t, err)
	assert.Equal(t, "Mexican", r.Cuisine)
}

func TestNormalizeRecipe_Errors(t *testing.T) {
	prefs := NewPreferences(GenerateRequest{})

	_, err := NormalizeRecipe("no structured data here", prefs)
	assert.ErrorIs(t, err, errInvalidJSON)

	_, err = NormalizeRecipe(`["title"]`, prefs)
	assert.ErrorIs(t, err, errNotObject)
}

func TestNormalizeDisplay(t *testing.T) {
	assert.Equal(t, []string{"200 g flour (sifted)"},
		NormalizeDisplay(`[{"amount":"200","unit":"g","item":"flour","note":"sifted"}]`))
	assert.Equal(t, []string{"2 eggs"}, NormalizeDisplay(`["2 eggs"]`))
	assert.Equal(t, []string{}, NormalizeDisplay(`null`))
	assert.Equal(t, []string{}, NormalizeDisplay(``))
	assert.Equal(t, []string{}, NormalizeDisplay(`{"item":"flour"}`))
	assert.Equal(t, []string{"1.5 cup milk", "salt"},
		NormalizeDisplay(`[{"amount":1.5,"unit":"cup","item":"milk"},{"item":"salt"}]`))
}

func TestCanonicalize_PreservesCountAndOrder(t *testing.T) {
	raw := `["a", {"item":"b"}, true, {"amount":"1/2","item":"c"}, null]`
	got := Canonicalize(gjson.Parse(raw))
	require.Len(t, got, 5)
	assert.Equal(t, []string{"a", "b", "true", "1/2 c", "null"}, DisplayStrings(got))
}

func TestIngredient_JSONShapes(t *testing.T) {
	in := []Ingredient{
		TextIngredient("2 eggs"),
		StructuredIngredient(Number(0.5), "cup", "sugar", ""),
		StructuredIngredient(TextAmount("a pinch"), "", "salt", "to taste"),
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `["2 eggs",{"amount":0.5,"unit":"cup","item":"sugar"},{"amount":"a pinch","item":"salt","note":"to taste"}]`, string(data))

	var out []Ingredient
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
