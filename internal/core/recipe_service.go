package core

import (
	"fmt"

	"cookcraft.app/server/internal/store"
)

// RecipeService wraps recipe records and their ingredient lines. A recipe
// and its lines are always created as one logical unit.
type RecipeService struct {
	dbStore *store.SQLiteStore
}

func NewRecipeService(db *store.SQLiteStore) *RecipeService {
	return &RecipeService{dbStore: db}
}

func (s *RecipeService) List(userID int64) ([]store.RecipeWithIngredients, error) {
	return s.dbStore.ListRecipes(userID)
}

func (s *RecipeService) Get(id string, userID int64) (*store.RecipeWithIngredients, error) {
	return s.dbStore.GetRecipe(id, userID)
}

func (s *RecipeService) Create(userID int64, input store.CreateRecipeInput) (*store.RecipeWithIngredients, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("recipe name is required")
	}
	if input.Instructions == "" {
		return nil, fmt.Errorf("recipe instructions are required")
	}
	if input.Servings < 1 {
		return nil, fmt.Errorf("recipe servings must be at least 1")
	}
	if input.Source == "" {
		input.Source = store.RecipeSourceUser
	}
	if err := validateRecipeFields(input.Difficulty, input.Rating, input.Source); err != nil {
		return nil, err
	}
	if input.Source == store.RecipeSourceDuplicate && input.ParentRecipeID == nil {
		return nil, fmt.Errorf("a duplicated recipe must reference its parent")
	}
	return s.dbStore.CreateRecipe(userID, input)
}

func (s *RecipeService) Update(id string, userID int64, updates store.UpdateRecipeInput) (*store.Recipe, error) {
	if updates.Servings != nil && *updates.Servings < 1 {
		return nil, fmt.Errorf("recipe servings must be at least 1")
	}
	if err := validateRecipeFields(updates.Difficulty, updates.Rating, ""); err != nil {
		return nil, err
	}
	return s.dbStore.UpdateRecipe(id, userID, updates)
}

func (s *RecipeService) Delete(id string, userID int64) error {
	return s.dbStore.DeleteRecipe(id, userID)
}

// Duplicate clones a caller-visible recipe and all of its ingredient lines
// under a new id, tagged with duplicate provenance.
func (s *RecipeService) Duplicate(id string, userID int64) (*store.RecipeWithIngredients, error) {
	original, err := s.dbStore.GetRecipe(id, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]store.RecipeIngredientInput, 0, len(original.Ingredients))
	for _, line := range original.Ingredients {
		lines = append(lines, store.RecipeIngredientInput{
			IngredientName: line.IngredientName,
			Quantity:       line.Quantity,
			Unit:           line.Unit,
			Notes:          line.Notes,
		})
	}

	parentID := original.ID
	return s.dbStore.CreateRecipe(userID, store.CreateRecipeInput{
		Name:           original.Name + " (Copy)",
		Description:    original.Description,
		Instructions:   original.Instructions,
		PrepTime:       original.PrepTime,
		CookTime:       original.CookTime,
		Difficulty:     original.Difficulty,
		Servings:       original.Servings,
		CuisineType:    original.CuisineType,
		Source:         store.RecipeSourceDuplicate,
		ParentRecipeID: &parentID,
		Ingredients:    lines,
	})
}

func validateRecipeFields(difficulty *string, rating *int, source string) error {
	if difficulty != nil {
		valid := false
		for _, d := range store.DifficultyLevels {
			if d == *difficulty {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown difficulty %q", *difficulty)
		}
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	if source != "" && source != store.RecipeSourceUser && source != store.RecipeSourceAI && source != store.RecipeSourceDuplicate {
		return fmt.Errorf("unknown recipe source %q", source)
	}
	return nil
}
