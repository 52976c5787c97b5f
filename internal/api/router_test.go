package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pantry-chef/internal/core/llm"
	"pantry-chef/internal/core/pantry"
	"pantry-chef/internal/core/recipe"
	"pantry-chef/internal/core/share"
	"pantry-chef/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct{}

func (failingProvider) Complete(context.Context, *llm.Request) (*llm.Response, error) {
	return nil, errors.New("upstream timeout")
}

func (failingProvider) Model() string { return "failing" }

type replyProvider struct{ content string }

func (p replyProvider) Complete(context.Context, *llm.Request) (*llm.Response, error) {
	return &llm.Response{Content: p.content, Model: "reply"}, nil
}

func (replyProvider) Model() string { return "reply" }

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Version: "test"},
		Server: config.ServerConfig{MaxBodyBytes: 4 << 10},
		Share:  config.ShareConfig{BaseURL: "https://chef.example.com"},
		Pantry: config.PantryConfig{Backend: "memory", Key: "pantry"},
	}
}

func newTestRouter(t *testing.T, generator recipe.Generator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	codec := share.NewCodec(cfg.Share.BaseURL)
	services := &Services{
		Recipe: recipe.NewService(generator, nil),
		Pantry: pantry.NewService(pantry.NewMemoryStore(), codec),
		Codec:  codec,
	}
	router, err := SetupRouter(cfg, services)
	require.NoError(t, err)
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerate_FallbackScenario(t *testing.T) {
	router := newTestRouter(t, recipe.NewGenerator(nil))

	for _, path := range []string{"/api/generate", "/api/v1/recipe/generate"} {
		w := do(router, http.MethodPost, path,
			`{"mode":"einfach","tab":"generator","extra":"Lemon, Capers","servings":2,"diet":"auto","allergies":[],"cuisine":"auto","pantry":{},"query":""}`)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Generation-Ticket"))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, []interface{}{"2 tbsp oil", "1 onion, finely chopped", "1 clove garlic, minced", "Lemon", "Capers"}, got["ingredients"])
		assert.Equal(t, float64(20), got["time"])
		assert.Len(t, got["steps"], 3)
		assert.Nil(t, got["allergyNote"])
		assert.Equal(t, "International", got["cuisine"])
	}
}

func TestGenerate_PinnedCuisineAndVeganAllergens(t *testing.T) {
	router := newTestRouter(t, recipe.NewGenerator(nil))

	w := do(router, http.MethodPost, "/api/v1/recipe/generate", `{"diet":"vegan","cuisine":"Korean","servings":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got recipe.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Korean", got.Cuisine)
	assert.Equal(t, "Korean home recipe", got.Title)
	assert.Equal(t, 3, got.Servings)
	require.NotNil(t, got.AllergyNote)
	assert.Equal(t, "eggs, dairy, fish, shellfish", *got.AllergyNote)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		gen    recipe.Generator
		body   string
		status int
		msg    string
	}{
		{"malformed body", recipe.NewGenerator(nil), `{"mode":`, http.StatusBadRequest, "invalid request"},
		{"upstream failure", recipe.NewGenerator(failingProvider{}), `{}`, http.StatusBadGateway, "recipe generation failed"},
		{"body too large", recipe.NewGenerator(nil), `{"extra":"` + strings.Repeat("x", 8<<10) + `"}`, http.StatusRequestEntityTooLarge, "request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newTestRouter(t, tt.gen), http.MethodPost, "/api/v1/recipe/generate", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, `{"error":"`+tt.msg+`"}`, w.Body.String())
		})
	}
}

func TestGenerate_OutOfRangeAmountStillValidJSON(t *testing.T) {
	provider := replyProvider{content: `{"title":"Salt","servings":1,"ingredients":[{"amount":1e999,"unit":"g","item":"salt"},{"amount":1e308,"unit":"g","item":"sugar"}],"steps":["Mix"]}`}
	router := newTestRouter(t, recipe.NewGenerator(provider))

	for _, path := range []string{"/api/v1/recipe/generate", "/api/v1/recipe/latest"} {
		method := http.MethodPost
		body := `{"servings":10}`
		if strings.HasSuffix(path, "latest") {
			method, body = http.MethodGet, ""
		}

		w := do(router, method, path, body)
		require.Equal(t, http.StatusOK, w.Code, path)

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got), path)
		assert.Equal(t, []interface{}{
			map[string]interface{}{"amount": "1e999", "unit": "g", "item": "salt"},
			map[string]interface{}{"amount": float64(1e308), "unit": "g", "item": "sugar"},
		}, got["ingredients"], path)
	}
}

func TestLatestRecipe(t *testing.T) {
	router := newTestRouter(t, recipe.NewGenerator(nil))

	w := do(router, http.MethodGet, "/api/v1/recipe/latest", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	gen := do(router, http.MethodPost, "/api/v1/recipe/generate", `{"tab":"query","query":"Shakshuka"}`)
	require.Equal(t, http.StatusOK, gen.Code)

	w = do(router, http.MethodGet, "/api/v1/recipe/latest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, gen.Header().Get("X-Generation-Ticket"), w.Header().Get("X-Generation-Ticket"))
	assert.Contains(t, w.Body.String(), `"title":"Shakshuka"`)
}

func TestScaleRecipe(t *testing.T) {
	router := newTestRouter(t, recipe.NewGenerator(nil))

	w := do(router, http.MethodPost, "/api/v1/recipe/scale",
		`{"servings":8,"recipe":{"title":"Pancakes","servings":4,"ingredients":[{"amount":2,"unit":"cup","item":"flour"},"2 eggs"],"steps":["Mix"]}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(8), got["servings"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"amount": float64(4), "unit": "cup", "item": "flour"},
		"2 eggs",
	}, got["ingredients"])

	w = do(router, http.MethodPost, "/api/v1/recipe/scale", `{"servings":0,"recipe":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPantryEndpoints(t *testing.T) {
	router := newTestRouter(t, recipe.NewGenerator(nil))

	w := do(router, http.MethodGet, "/api/v1/pantry", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())

	w = do(router, http.MethodPut, "/api/v1/pantry", `{"rice":true,"salt":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodPatch, "/api/v1/pantry/beans", `{"available":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rice":true,"salt":false,"beans":true}`, w.Body.String())

	w = do(router, http.MethodPatch, "/api/v1/pantry/beans", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/v1/pantry/share", "")
	require.Equal(t, http.StatusOK, w.Code)
	var links pantry.Links
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &links))
	assert.Equal(t, []string{"beans", "rice"}, links.Selected)
	assert.True(t, strings.HasPrefix(links.TokenURL, "https://chef.example.com/?pantry="))

	w = do(router, http.MethodGet, "/api/v1/pantry/share?origin=http://localhost:3000", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &links))
	assert.True(t, strings.HasPrefix(links.MapURL, "http://localhost:3000/?share="))

	// 匯入到另一個實例
	other := newTestRouter(t, recipe.NewGenerator(nil))
	body, err := json.Marshal(map[string]string{"input": links.TokenURL})
	require.NoError(t, err)
	w = do(other, http.MethodPost, "/api/v1/pantry/import", string(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"scheme":"token"`)

	w = do(other, http.MethodGet, "/api/v1/pantry", "")
	assert.JSONEq(t, `{"beans":true,"rice":true}`, w.Body.String())
}

func TestPantryShare_IgnoresOriginHeader(t *testing.T) {
	router := newTestRouter(t, recipe.NewGenerator(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pantry/share", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var links pantry.Links
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &links))
	assert.True(t, strings.HasPrefix(links.TokenURL, "https://chef.example.com/?pantry="), links.TokenURL)
	assert.True(t, strings.HasPrefix(links.MapURL, "https://chef.example.com/?share="), links.MapURL)
}

func TestShareEndpoints(t *testing.T) {
	router := newTestRouter(t, recipe.NewGenerator(nil))

	w := do(router, http.MethodPost, "/api/v1/share/encode", `{"selection":{"milk":true,"eggs":true,"flour":false}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var enc struct {
		Token    string `json:"token"`
		TokenURL string `json:"tokenUrl"`
		MapURL   string `json:"mapUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enc))
	assert.Equal(t, "https://chef.example.com/?pantry="+enc.Token, enc.TokenURL)

	w = do(router, http.MethodGet, "/api/v1/share/decode?input="+enc.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"scheme":"token","selection":{"eggs":true,"milk":true},"selected":["eggs","milk"]}`, w.Body.String())

	w = do(router, http.MethodGet, "/api/v1/share/decode?input=%25%25", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"scheme":"","selection":{},"selected":[]}`, w.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, recipe.NewGenerator(nil))

	w := do(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"generator":"fallback"`)
	assert.Contains(t, w.Body.String(), `"pantry":"memory"`)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/live", "").Code)
}

func TestSetupRouter_RequiresServices(t *testing.T) {
	_, err := SetupRouter(testConfig(), nil)
	assert.Error(t, err)
}
