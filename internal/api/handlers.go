package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cookcraft.app/server/internal/auth"
	"cookcraft.app/server/internal/core"
	"cookcraft.app/server/internal/store"
)

type Services struct {
	Chat      *core.ChatService
	Accounts  *core.AccountService
	Inventory *core.InventoryService
	Recipes   *core.RecipeService
	Meals     *core.MealService
	Profiles  *core.ProfileService
}

type APIHandler struct {
	services Services
}

func NewAPIHandler(services Services) *APIHandler {
	return &APIHandler{services: services}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		externalUserID, err := auth.ValidateJWT(tokenString)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := h.services.Accounts.GetUserByExternalID(externalUserID)
		if err != nil {
			log.Printf("Error in JWTAuthMiddleware for user %s: %v", externalUserID, err)
			respondError(w, http.StatusInternalServerError, "Failed to process user identity")
			return
		}

		if user == nil {
			respondError(w, http.StatusUnauthorized, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type SignupRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.UserID == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "User ID and password are required")
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.UserID, err)
		respondError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user, err := h.services.Accounts.CreateUser(req.UserID, hashedPassword)
	if err != nil {
		log.Printf("Error creating user %s: %v", req.UserID, err)
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.UserID == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "User ID and password are required")
		return
	}

	user, err := h.services.Accounts.GetUserByExternalID(req.UserID)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.UserID, err)
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateJWT(req.UserID)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.UserID, err)
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Chat

type ChatRequest struct {
	Message             string          `json:"message"`
	ConversationHistory []core.ChatTurn `json:"conversationHistory"`
	AuthToken           string          `json:"authToken"`

	// Pointers so absent fields keep their documented defaults
	// (true, true, false).
	UseDietaryPreferences    *bool `json:"useDietaryPreferences"`
	UsePreferredCuisines     *bool `json:"usePreferredCuisines"`
	OnlyInventoryIngredients *bool `json:"onlyInventoryIngredients"`
}

type ChatResponse struct {
	Text          string              `json:"text"`
	FunctionCalls []core.FunctionCall `json:"functionCalls,omitempty"`
}

// ChatHandler authenticates from the request body (the token travels with
// the payload on this endpoint), then runs one orchestrated exchange.
func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.AuthToken == "" {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	externalUserID, err := auth.ValidateJWT(req.AuthToken)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.services.Accounts.GetUserByExternalID(externalUserID)
	if err != nil || user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	flags := core.ChatFlags{
		UseDietaryPreferences:    boolOrDefault(req.UseDietaryPreferences, true),
		UsePreferredCuisines:     boolOrDefault(req.UsePreferredCuisines, true),
		OnlyInventoryIngredients: boolOrDefault(req.OnlyInventoryIngredients, false),
	}

	outcome, err := h.services.Chat.Converse(r.Context(), user.ID, req.Message, req.ConversationHistory, flags)
	if err != nil {
		log.Printf("Chat exchange failed for user %d: %v", user.ID, err)
		if errors.Is(err, core.ErrToolLoopExceeded) {
			respondError(w, http.StatusBadGateway, "Could not complete the request, please try again")
			return
		}
		respondError(w, http.StatusBadGateway, "The assistant is unavailable right now, please try again")
		return
	}

	respondJSON(w, http.StatusOK, ChatResponse{
		Text:          outcome.Text,
		FunctionCalls: outcome.PendingCalls,
	})
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Inventory

func (h *APIHandler) ListIngredientsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	ingredients, err := h.services.Inventory.List(userID)
	if err != nil {
		log.Printf("Error listing ingredients for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to list ingredients")
		return
	}
	respondJSON(w, http.StatusOK, ingredients)
}

func (h *APIHandler) CreateIngredientHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var input store.CreateIngredientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ingredient, err := h.services.Inventory.Create(userID, input)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, ingredient)
}

func (h *APIHandler) UpdateIngredientHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	ingredientID := chi.URLParam(r, "ingredientID")

	var updates store.UpdateIngredientInput
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ingredient, err := h.services.Inventory.Update(ingredientID, userID, updates)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Ingredient not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, ingredient)
}

func (h *APIHandler) DeleteIngredientHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	ingredientID := chi.URLParam(r, "ingredientID")

	if err := h.services.Inventory.Delete(ingredientID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Ingredient not found")
			return
		}
		log.Printf("Error deleting ingredient %s for user %d: %v", ingredientID, userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete ingredient")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recipes

func (h *APIHandler) ListRecipesHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	recipes, err := h.services.Recipes.List(userID)
	if err != nil {
		log.Printf("Error listing recipes for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to list recipes")
		return
	}
	respondJSON(w, http.StatusOK, recipes)
}

func (h *APIHandler) GetRecipeHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	recipeID := chi.URLParam(r, "recipeID")

	recipe, err := h.services.Recipes.Get(recipeID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		log.Printf("Error getting recipe %s for user %d: %v", recipeID, userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to get recipe")
		return
	}
	respondJSON(w, http.StatusOK, recipe)
}

func (h *APIHandler) CreateRecipeHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var input store.CreateRecipeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	recipe, err := h.services.Recipes.Create(userID, input)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, recipe)
}

func (h *APIHandler) UpdateRecipeHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	recipeID := chi.URLParam(r, "recipeID")

	var updates store.UpdateRecipeInput
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	recipe, err := h.services.Recipes.Update(recipeID, userID, updates)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, recipe)
}

func (h *APIHandler) DeleteRecipeHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	recipeID := chi.URLParam(r, "recipeID")

	if err := h.services.Recipes.Delete(recipeID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		log.Printf("Error deleting recipe %s for user %d: %v", recipeID, userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete recipe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) DuplicateRecipeHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	recipeID := chi.URLParam(r, "recipeID")

	recipe, err := h.services.Recipes.Duplicate(recipeID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		log.Printf("Error duplicating recipe %s for user %d: %v", recipeID, userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to duplicate recipe")
		return
	}
	respondJSON(w, http.StatusCreated, recipe)
}

// Meals

type LogMealResponse struct {
	Meal      *store.MealHistory    `json:"meal"`
	Deduction *core.DeductionResult `json:"deduction,omitempty"`
}

func (h *APIHandler) ListMealsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	meals, err := h.services.Meals.History(userID)
	if err != nil {
		log.Printf("Error listing meals for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to list meal history")
		return
	}
	respondJSON(w, http.StatusOK, meals)
}

func (h *APIHandler) LogMealHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var input store.CreateMealInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	meal, deduction, err := h.services.Meals.LogMeal(userID, input)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		if meal == nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Deduction failed after logging meal %s for user %d: %v", meal.ID, userID, err)
		respondError(w, http.StatusInternalServerError, "Meal logged but inventory deduction failed")
		return
	}
	respondJSON(w, http.StatusCreated, LogMealResponse{Meal: meal, Deduction: deduction})
}

func (h *APIHandler) DeleteMealHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	mealID := chi.URLParam(r, "mealID")

	if err := h.services.Meals.Delete(mealID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Meal not found")
			return
		}
		log.Printf("Error deleting meal %s for user %d: %v", mealID, userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete meal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Profile

func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	profile, err := h.services.Profiles.Get(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Profile not found")
			return
		}
		log.Printf("Error getting profile for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var updates store.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.services.Profiles.Update(userID, updates)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Profile not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
