package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookcraft.app/server/internal/config"
	"cookcraft.app/server/internal/core"
	"cookcraft.app/server/internal/store"
)

type scriptedModel struct {
	responses   []*genai.GenerateContentResponse
	invocations int
}

func (m *scriptedModel) GetChatResponse(_ context.Context, _ string, _ []*genai.Content) (*genai.GenerateContentResponse, error) {
	idx := m.invocations
	m.invocations++
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

func textOnlyResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(text)}}},
		},
	}
}

func writeCallResponse(text string, call genai.FunctionCall) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(text), call}}},
		},
	}
}

func newTestHandler(t *testing.T, model core.ChatModel) http.Handler {
	t.Helper()
	config.AppConfig.JWTSecret = "test-secret"

	dbStore, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dbStore.Close() })

	inventory := core.NewInventoryService(dbStore)
	profiles := core.NewProfileService(dbStore)
	apiHandler := NewAPIHandler(Services{
		Chat:      core.NewChatService(model, inventory, profiles),
		Accounts:  core.NewAccountService(dbStore),
		Inventory: inventory,
		Recipes:   core.NewRecipeService(dbStore),
		Meals:     core.NewMealService(dbStore),
		Profiles:  profiles,
	})
	return NewRouter(apiHandler)
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func signupAndLogin(t *testing.T, handler http.Handler, userID string) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/signup", "", map[string]string{"user_id": userID, "password": "hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/login", "", map[string]string{"user_id": userID, "password": "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func TestChatMissingAuthToken(t *testing.T) {
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{textOnlyResponse("hi")}}
	handler := newTestHandler(t, model)

	rec := doJSON(t, handler, http.MethodPost, "/api/chat", "", map[string]interface{}{"message": "hello"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Authentication required", body["error"])
	// The model must never be invoked without a credential.
	assert.Zero(t, model.invocations)
}

func TestChatInvalidAuthToken(t *testing.T) {
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{textOnlyResponse("hi")}}
	handler := newTestHandler(t, model)

	rec := doJSON(t, handler, http.MethodPost, "/api/chat", "", map[string]interface{}{
		"message":   "hello",
		"authToken": "not-a-jwt",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, model.invocations)
}

func TestChatPlainTextResponseOmitsFunctionCalls(t *testing.T) {
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{textOnlyResponse("Try a frittata.")}}
	handler := newTestHandler(t, model)
	token := signupAndLogin(t, handler, "alice")

	rec := doJSON(t, handler, http.MethodPost, "/api/chat", "", map[string]interface{}{
		"message":   "dinner ideas?",
		"authToken": token,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "text")
	assert.NotContains(t, body, "functionCalls")

	var text string
	require.NoError(t, json.Unmarshal(body["text"], &text))
	assert.Equal(t, "Try a frittata.", text)
}

func TestChatPendingWriteIsNotPersisted(t *testing.T) {
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{
		writeCallResponse("Shall I save it?", genai.FunctionCall{
			Name: core.ToolCreateRecipe,
			Args: map[string]any{
				"name":         "Frittata",
				"instructions": "Whisk eggs, bake.",
				"difficulty":   "easy",
				"servings":     float64(2),
				"ingredients": []any{
					map[string]any{"ingredient_name": "Eggs", "quantity": float64(4), "unit": "pieces"},
				},
			},
		}),
	}}
	handler := newTestHandler(t, model)
	token := signupAndLogin(t, handler, "alice")

	rec := doJSON(t, handler, http.MethodPost, "/api/chat", "", map[string]interface{}{
		"message":   "save that recipe",
		"authToken": token,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Shall I save it?", resp.Text)
	require.Len(t, resp.FunctionCalls, 1)
	assert.Equal(t, core.ToolCreateRecipe, resp.FunctionCalls[0].Name)

	// The orchestrator must not have written anything; the recipe only
	// exists after the caller confirms through the ordinary route.
	rec = doJSON(t, handler, http.MethodGet, "/api/recipes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recipes []store.RecipeWithIngredients
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recipes))
	assert.Empty(t, recipes)

	rec = doJSON(t, handler, http.MethodPost, "/api/recipes", token, map[string]interface{}{
		"name":         "Frittata",
		"instructions": "Whisk eggs, bake.",
		"difficulty":   "easy",
		"servings":     2,
		"source":       store.RecipeSourceAI,
		"ingredients": []map[string]interface{}{
			{"ingredient_name": "Eggs", "quantity": 4, "unit": "pieces"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/recipes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recipes))
	require.Len(t, recipes, 1)
	assert.Equal(t, store.RecipeSourceAI, recipes[0].Source)
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	handler := newTestHandler(t, &scriptedModel{responses: []*genai.GenerateContentResponse{textOnlyResponse("")}})

	rec := doJSON(t, handler, http.MethodGet, "/api/ingredients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/recipes", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIngredientCRUDOverHTTP(t *testing.T) {
	handler := newTestHandler(t, &scriptedModel{responses: []*genai.GenerateContentResponse{textOnlyResponse("")}})
	token := signupAndLogin(t, handler, "alice")

	rec := doJSON(t, handler, http.MethodPost, "/api/ingredients", token, map[string]interface{}{
		"name":     "Flour",
		"quantity": 5,
		"unit":     "cups",
		"category": "Grains",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created store.Ingredient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = doJSON(t, handler, http.MethodPatch, "/api/ingredients/"+created.ID, token, map[string]interface{}{
		"quantity": 2.5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated store.Ingredient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 2.5, updated.Quantity)
	assert.Equal(t, "Flour", updated.Name)

	rec = doJSON(t, handler, http.MethodDelete, "/api/ingredients/"+created.ID, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/ingredients", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []store.Ingredient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Empty(t, items)
}

func TestLogMealDeductsInventoryOverHTTP(t *testing.T) {
	handler := newTestHandler(t, &scriptedModel{responses: []*genai.GenerateContentResponse{textOnlyResponse("")}})
	token := signupAndLogin(t, handler, "alice")

	rec := doJSON(t, handler, http.MethodPost, "/api/ingredients", token, map[string]interface{}{
		"name":     "Pasta",
		"quantity": 500,
		"unit":     "g",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/recipes", token, map[string]interface{}{
		"name":         "Spaghetti",
		"instructions": "Boil and serve.",
		"servings":     2,
		"ingredients": []map[string]interface{}{
			{"ingredient_name": "Pasta", "quantity": 200, "unit": "g"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var recipe store.RecipeWithIngredients
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recipe))

	rec = doJSON(t, handler, http.MethodPost, "/api/meals", token, map[string]interface{}{
		"recipe_id": recipe.ID,
		"meal_name": "Pasta night",
		"servings":  1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var logged LogMealResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logged))
	require.NotNil(t, logged.Deduction)
	assert.Equal(t, []string{"Pasta"}, logged.Deduction.Deducted)

	rec = doJSON(t, handler, http.MethodGet, "/api/ingredients", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []store.Ingredient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.InDelta(t, 400, items[0].Quantity, 1e-9)
}

func TestProfileRoundTrip(t *testing.T) {
	handler := newTestHandler(t, &scriptedModel{responses: []*genai.GenerateContentResponse{textOnlyResponse("")}})
	token := signupAndLogin(t, handler, "alice")

	rec := doJSON(t, handler, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile store.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Empty(t, profile.Allergies)

	rec = doJSON(t, handler, http.MethodPatch, "/api/profile", token, map[string]interface{}{
		"allergies":          []string{"peanuts"},
		"preferred_cuisines": []string{"Italian"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, []string{"peanuts"}, profile.Allergies)
	assert.Equal(t, []string{"Italian"}, profile.PreferredCuisines)
}
