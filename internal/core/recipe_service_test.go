package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookcraft.app/server/internal/store"
)

func TestDuplicateRecipeCopiesLinesAndSetsProvenance(t *testing.T) {
	dbStore := newTestStore(t)
	userID := newTestUser(t, dbStore, "cook")
	svc := NewRecipeService(dbStore)

	notes := "finely chopped"
	description := "A weeknight classic."
	original, err := svc.Create(userID, store.CreateRecipeInput{
		Name:         "Shakshuka",
		Description:  &description,
		Instructions: "Simmer tomatoes, crack eggs, bake.",
		Servings:     2,
		Source:       store.RecipeSourceUser,
		Ingredients: []store.RecipeIngredientInput{
			{IngredientName: "Eggs", Quantity: 4, Unit: "pieces"},
			{IngredientName: "Onion", Quantity: 1, Unit: "pieces", Notes: &notes},
		},
	})
	require.NoError(t, err)

	duplicate, err := svc.Duplicate(original.ID, userID)
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, duplicate.ID)
	assert.Equal(t, "Shakshuka (Copy)", duplicate.Name)
	assert.Equal(t, store.RecipeSourceDuplicate, duplicate.Source)
	require.NotNil(t, duplicate.ParentRecipeID)
	assert.Equal(t, original.ID, *duplicate.ParentRecipeID)

	require.Len(t, duplicate.Ingredients, 2)
	for i, line := range duplicate.Ingredients {
		assert.Equal(t, original.Ingredients[i].IngredientName, line.IngredientName)
		assert.Equal(t, original.Ingredients[i].Quantity, line.Quantity)
		assert.Equal(t, original.Ingredients[i].Unit, line.Unit)
		assert.Equal(t, original.Ingredients[i].Notes, line.Notes)
		assert.Equal(t, duplicate.ID, line.RecipeID)
	}
}

func TestDuplicateRequiresVisibleRecipe(t *testing.T) {
	dbStore := newTestStore(t)
	ownerID := newTestUser(t, dbStore, "owner")
	strangerID := newTestUser(t, dbStore, "stranger")
	svc := NewRecipeService(dbStore)

	recipe, err := svc.Create(ownerID, store.CreateRecipeInput{
		Name:         "Secret Sauce",
		Instructions: "Stir.",
		Servings:     1,
	})
	require.NoError(t, err)

	_, err = svc.Duplicate(recipe.ID, strangerID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateRecipeValidation(t *testing.T) {
	dbStore := newTestStore(t)
	userID := newTestUser(t, dbStore, "cook")
	svc := NewRecipeService(dbStore)

	_, err := svc.Create(userID, store.CreateRecipeInput{Name: "", Instructions: "x", Servings: 1})
	require.Error(t, err)

	_, err = svc.Create(userID, store.CreateRecipeInput{Name: "x", Instructions: "x", Servings: 0})
	require.Error(t, err)

	bad := "extreme"
	_, err = svc.Create(userID, store.CreateRecipeInput{Name: "x", Instructions: "x", Servings: 1, Difficulty: &bad})
	require.Error(t, err)

	rating := 6
	_, err = svc.Create(userID, store.CreateRecipeInput{Name: "x", Instructions: "x", Servings: 1, Rating: &rating})
	require.Error(t, err)

	_, err = svc.Create(userID, store.CreateRecipeInput{Name: "x", Instructions: "x", Servings: 1, Source: store.RecipeSourceDuplicate})
	require.Error(t, err, "duplicate without a parent must be rejected")
}

func TestCreateRecipeDefaultsToUserSource(t *testing.T) {
	dbStore := newTestStore(t)
	userID := newTestUser(t, dbStore, "cook")
	svc := NewRecipeService(dbStore)

	recipe, err := svc.Create(userID, store.CreateRecipeInput{
		Name:         "Toast",
		Instructions: "Toast the bread.",
		Servings:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, store.RecipeSourceUser, recipe.Source)
	assert.Nil(t, recipe.ParentRecipeID)
}

func TestUpdateRecipeRating(t *testing.T) {
	dbStore := newTestStore(t)
	userID := newTestUser(t, dbStore, "cook")
	svc := NewRecipeService(dbStore)

	recipe, err := svc.Create(userID, store.CreateRecipeInput{
		Name:         "Soup",
		Instructions: "Boil.",
		Servings:     2,
	})
	require.NoError(t, err)
	assert.Nil(t, recipe.Rating)

	rating := 4
	updated, err := svc.Update(recipe.ID, userID, store.UpdateRecipeInput{Rating: &rating})
	require.NoError(t, err)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 4, *updated.Rating)
	// Unchanged fields survive a partial update.
	assert.Equal(t, "Soup", updated.Name)
	assert.Equal(t, 2, updated.Servings)
}
