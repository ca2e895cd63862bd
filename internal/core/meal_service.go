package core

import (
	"fmt"
	"log"
	"strings"

	"cookcraft.app/server/internal/store"
)

// MealService records eaten meals and runs the inventory deduction pass for
// meals logged against a recipe.
type MealService struct {
	dbStore *store.SQLiteStore
}

func NewMealService(db *store.SQLiteStore) *MealService {
	return &MealService{dbStore: db}
}

// DeductionResult partitions a recipe's ingredient names by what happened
// to them during one deduction pass. It is informational; a skipped name is
// an expected outcome, not an error.
type DeductionResult struct {
	Deducted []string `json:"deducted"`
	Skipped  []string `json:"skipped"`
	Failed   []string `json:"failed"`
}

func (s *MealService) History(userID int64) ([]store.MealWithRecipe, error) {
	return s.dbStore.ListMeals(userID)
}

// LogMeal records the meal and, when it references a recipe, deducts the
// consumed ingredients from inventory. Callers should treat this as one
// logical operation.
func (s *MealService) LogMeal(userID int64, input store.CreateMealInput) (*store.MealHistory, *DeductionResult, error) {
	if input.MealName == "" {
		return nil, nil, fmt.Errorf("meal name is required")
	}
	if input.Servings <= 0 {
		return nil, nil, fmt.Errorf("meal servings must be positive")
	}

	meal, err := s.dbStore.CreateMeal(userID, input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record meal: %w", err)
	}

	if input.RecipeID == nil {
		return meal, nil, nil
	}

	result, err := s.Deduct(userID, *input.RecipeID, input.Servings)
	if err != nil {
		// The meal row is already committed; the pass is non-atomic by
		// design.
		return meal, nil, err
	}
	return meal, result, nil
}

// Delete removes a history entry. It does not reverse the deduction the
// entry triggered.
func (s *MealService) Delete(id string, userID int64) error {
	return s.dbStore.DeleteMeal(id, userID)
}

// Deduct scales the recipe's ingredient lines by servingsEaten over the
// recipe's serving count and subtracts the result from matching inventory
// items, flooring quantities at zero. Matching is case-insensitive and
// exact; there is no unit conversion. A store error on one line is recorded
// in Failed and the pass continues; prior writes stand.
func (s *MealService) Deduct(userID int64, recipeID string, servingsEaten float64) (*DeductionResult, error) {
	recipe, err := s.dbStore.GetRecipe(recipeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe for deduction: %w", err)
	}
	inventory, err := s.dbStore.ListIngredients(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory for deduction: %w", err)
	}

	recipeServings := recipe.Servings
	if recipeServings < 1 {
		recipeServings = 1
	}
	multiplier := servingsEaten / float64(recipeServings)

	result := &DeductionResult{}
	for _, line := range recipe.Ingredients {
		item := matchInventoryItem(inventory, line.IngredientName)
		if item == nil {
			result.Skipped = append(result.Skipped, line.IngredientName)
			continue
		}

		newQuantity := item.Quantity - line.Quantity*multiplier
		if newQuantity < 0 {
			newQuantity = 0
		}

		if _, err := s.dbStore.UpdateIngredient(item.ID, userID, store.UpdateIngredientInput{Quantity: &newQuantity}); err != nil {
			log.Printf("Failed to deduct %q from inventory for user %d: %v", line.IngredientName, userID, err)
			result.Failed = append(result.Failed, line.IngredientName)
			continue
		}
		result.Deducted = append(result.Deducted, line.IngredientName)
	}
	return result, nil
}

func matchInventoryItem(inventory []store.Ingredient, name string) *store.Ingredient {
	for i := range inventory {
		if strings.EqualFold(inventory[i].Name, name) {
			return &inventory[i]
		}
	}
	return nil
}
