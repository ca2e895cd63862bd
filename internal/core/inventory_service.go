package core

import (
	"fmt"

	"cookcraft.app/server/internal/store"
)

// InventoryService wraps ingredient records for the authenticated caller.
type InventoryService struct {
	dbStore *store.SQLiteStore
}

func NewInventoryService(db *store.SQLiteStore) *InventoryService {
	return &InventoryService{dbStore: db}
}

// List returns the caller's inventory sorted by category then name.
func (s *InventoryService) List(userID int64) ([]store.Ingredient, error) {
	return s.dbStore.ListIngredients(userID)
}

func (s *InventoryService) Create(userID int64, input store.CreateIngredientInput) (*store.Ingredient, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("ingredient name is required")
	}
	if input.Unit == "" {
		return nil, fmt.Errorf("ingredient unit is required")
	}
	if input.Quantity < 0 {
		return nil, fmt.Errorf("ingredient quantity cannot be negative")
	}
	if input.Category != nil && !validCategory(*input.Category) {
		return nil, fmt.Errorf("unknown ingredient category %q", *input.Category)
	}
	return s.dbStore.CreateIngredient(userID, input)
}

func (s *InventoryService) Update(id string, userID int64, updates store.UpdateIngredientInput) (*store.Ingredient, error) {
	if updates.Quantity != nil && *updates.Quantity < 0 {
		return nil, fmt.Errorf("ingredient quantity cannot be negative")
	}
	if updates.Category != nil && !validCategory(*updates.Category) {
		return nil, fmt.Errorf("unknown ingredient category %q", *updates.Category)
	}
	return s.dbStore.UpdateIngredient(id, userID, updates)
}

func (s *InventoryService) Delete(id string, userID int64) error {
	return s.dbStore.DeleteIngredient(id, userID)
}

func validCategory(category string) bool {
	for _, c := range store.IngredientCategories {
		if c == category {
			return true
		}
	}
	return false
}
