package store

import "time"

type User struct {
	ID             int64     `json:"id"`
	ExternalUserID string    `json:"external_user_id"`
	PasswordHash   string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt      time.Time `json:"created_at"`
}

// Profile holds a user's cooking preferences. One row per user, created
// together with the user at signup.
type Profile struct {
	UserID             int64     `json:"user_id"`
	DietaryPreferences []string  `json:"dietary_preferences"`
	Allergies          []string  `json:"allergies"`
	PreferredCuisines  []string  `json:"preferred_cuisines"`
	DefaultServingSize int       `json:"default_serving_size"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Ingredient is a single inventory item.
type Ingredient struct {
	ID        string    `json:"id"` // Using UUID for external ID
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Category  *string   `json:"category"` // Nullable
	Notes     *string   `json:"notes"`    // Nullable
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Recipe struct {
	ID             string    `json:"id"` // Using UUID for external ID
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	Instructions   string    `json:"instructions"`
	PrepTime       *int      `json:"prep_time"` // Minutes
	CookTime       *int      `json:"cook_time"` // Minutes
	Difficulty     *string   `json:"difficulty"`
	Rating         *int      `json:"rating"` // 1-5, unset until the user rates
	Servings       int       `json:"servings"`
	CuisineType    *string   `json:"cuisine_type"`
	Source         string    `json:"source"` // "user", "ai" or "duplicate"
	ParentRecipeID *string   `json:"parent_recipe_id"`
	ImageURL       *string   `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RecipeIngredient is one ingredient line of a recipe. The name is a free
// display string matched case-insensitively against inventory at deduction
// time; it is deliberately not a foreign key so a recipe stays valid even
// if its ingredients are never stocked.
type RecipeIngredient struct {
	ID             string    `json:"id"`
	RecipeID       string    `json:"recipe_id"`
	IngredientName string    `json:"ingredient_name"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

type RecipeWithIngredients struct {
	Recipe
	Ingredients []RecipeIngredient `json:"recipe_ingredients"`
}

// MealHistory records one eaten meal. Deleting an entry does not reverse
// the inventory deduction it triggered.
type MealHistory struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	RecipeID  *string   `json:"recipe_id"` // Nullable, meals can be logged free-form
	MealName  string    `json:"meal_name"`
	Servings  float64   `json:"servings"`
	EatenAt   time.Time `json:"eaten_at"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type MealWithRecipe struct {
	MealHistory
	Recipe *Recipe `json:"recipe"`
}

const (
	RecipeSourceUser      = "user"
	RecipeSourceAI        = "ai"
	RecipeSourceDuplicate = "duplicate"
)

var DifficultyLevels = []string{"easy", "medium", "hard"}

var IngredientCategories = []string{
	"Dairy", "Meat", "Seafood", "Produce", "Bakery",
	"Grains", "Spices", "Condiments", "Beverages", "Other",
}

// Input types for creates and partial updates. Nil pointer fields on the
// update types mean "leave unchanged".

type CreateIngredientInput struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category *string `json:"category"`
	Notes    *string `json:"notes"`
}

type UpdateIngredientInput struct {
	Name     *string  `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Category *string  `json:"category"`
	Notes    *string  `json:"notes"`
}

type RecipeIngredientInput struct {
	IngredientName string  `json:"ingredient_name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Notes          *string `json:"notes"`
}

type CreateRecipeInput struct {
	Name           string                  `json:"name"`
	Description    *string                 `json:"description"`
	Instructions   string                  `json:"instructions"`
	PrepTime       *int                    `json:"prep_time"`
	CookTime       *int                    `json:"cook_time"`
	Difficulty     *string                 `json:"difficulty"`
	Rating         *int                    `json:"rating"`
	Servings       int                     `json:"servings"`
	CuisineType    *string                 `json:"cuisine_type"`
	Source         string                  `json:"source"`
	ParentRecipeID *string                 `json:"parent_recipe_id"`
	ImageURL       *string                 `json:"image_url"`
	Ingredients    []RecipeIngredientInput `json:"ingredients"`
}

type UpdateRecipeInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Instructions *string `json:"instructions"`
	PrepTime     *int    `json:"prep_time"`
	CookTime     *int    `json:"cook_time"`
	Difficulty   *string `json:"difficulty"`
	Rating       *int    `json:"rating"`
	Servings     *int    `json:"servings"`
	CuisineType  *string `json:"cuisine_type"`
	ImageURL     *string `json:"image_url"`
}

type CreateMealInput struct {
	RecipeID *string   `json:"recipe_id"`
	MealName string    `json:"meal_name"`
	Servings float64   `json:"servings"`
	EatenAt  time.Time `json:"eaten_at"`
	Notes    *string   `json:"notes"`
}

type UpdateProfileInput struct {
	DietaryPreferences *[]string `json:"dietary_preferences"`
	Allergies          *[]string `json:"allergies"`
	PreferredCuisines  *[]string `json:"preferred_cuisines"`
	DefaultServingSize *int      `json:"default_serving_size"`
}
