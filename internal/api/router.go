package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/signup", apiHandler.SignupHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// The chat endpoint authenticates from its request body rather
		// than the Authorization header.
		r.Post("/chat", apiHandler.ChatHandler)

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Inventory routes
			r.Get("/ingredients", apiHandler.ListIngredientsHandler)
			r.Post("/ingredients", apiHandler.CreateIngredientHandler)
			r.Patch("/ingredients/{ingredientID}", apiHandler.UpdateIngredientHandler)
			r.Delete("/ingredients/{ingredientID}", apiHandler.DeleteIngredientHandler)

			// Recipe routes
			r.Get("/recipes", apiHandler.ListRecipesHandler)
			r.Post("/recipes", apiHandler.CreateRecipeHandler)
			r.Get("/recipes/{recipeID}", apiHandler.GetRecipeHandler)
			r.Patch("/recipes/{recipeID}", apiHandler.UpdateRecipeHandler)
			r.Delete("/recipes/{recipeID}", apiHandler.DeleteRecipeHandler)
			r.Post("/recipes/{recipeID}/duplicate", apiHandler.DuplicateRecipeHandler)

			// Meal history routes
			r.Get("/meals", apiHandler.ListMealsHandler)
			r.Post("/meals", apiHandler.LogMealHandler)
			r.Delete("/meals/{mealID}", apiHandler.DeleteMealHandler)

			// Profile routes
			r.Get("/profile", apiHandler.GetProfileHandler)
			r.Patch("/profile", apiHandler.UpdateProfileHandler)
		})
	})

	return r
}
