package core

import (
	"github.com/google/generative-ai-go/genai"

	"cookcraft.app/server/internal/store"
)

// Tool names the model may request. The read tools are executed by the
// orchestrator; the write tools are only ever surfaced to the caller for
// confirmation.
const (
	ToolGetUserIngredients = "get_user_ingredients"
	ToolGetUserProfile     = "get_user_profile"
	ToolCreateRecipe       = "create_recipe"
	ToolAddIngredient      = "add_ingredient"
)

var writeTools = map[string]bool{
	ToolCreateRecipe:  true,
	ToolAddIngredient: true,
}

func isWriteTool(name string) bool {
	return writeTools[name]
}

// assistantTools declares the callable functions advertised to the model.
func assistantTools() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				getUserIngredientsDeclaration(),
				getUserProfileDeclaration(),
				createRecipeDeclaration(),
				addIngredientDeclaration(),
			},
		},
	}
}

func getUserIngredientsDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: ToolGetUserIngredients,
		Description: "Gets the user's current ingredients from their inventory. " +
			"Use this to see what ingredients are available before generating recipes.",
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		},
	}
}

func getUserProfileDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: ToolGetUserProfile,
		Description: "Gets the user's dietary preferences, allergies, preferred cuisines, " +
			"and default serving size. Use this to personalize recipe suggestions.",
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		},
	}
}

func createRecipeDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: ToolCreateRecipe,
		Description: "Creates a new recipe and adds it to the user's recipe collection. " +
			"Use this when the user asks you to create or save a recipe.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {
					Type:        genai.TypeString,
					Description: "The name of the recipe",
				},
				"description": {
					Type:        genai.TypeString,
					Description: "A brief description of the recipe",
				},
				"instructions": {
					Type:        genai.TypeString,
					Description: "Step-by-step cooking instructions, separated by newlines or numbered",
				},
				"prep_time": {
					Type:        genai.TypeNumber,
					Description: "Preparation time in minutes",
				},
				"cook_time": {
					Type:        genai.TypeNumber,
					Description: "Cooking time in minutes",
				},
				"difficulty": {
					Type:        genai.TypeString,
					Enum:        store.DifficultyLevels,
					Description: "The difficulty level of the recipe",
				},
				"servings": {
					Type:        genai.TypeNumber,
					Description: "Number of servings this recipe makes",
				},
				"cuisine_type": {
					Type:        genai.TypeString,
					Description: "The type of cuisine (e.g., Italian, Mexican, Chinese)",
				},
				"ingredients": {
					Type:        genai.TypeArray,
					Description: "List of ingredients needed for the recipe",
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"ingredient_name": {
								Type:        genai.TypeString,
								Description: "Name of the ingredient",
							},
							"quantity": {
								Type:        genai.TypeNumber,
								Description: "Quantity of the ingredient",
							},
							"unit": {
								Type:        genai.TypeString,
								Description: "Unit of measurement (e.g., cups, tbsp, tsp, oz, g, pieces)",
							},
							"notes": {
								Type:        genai.TypeString,
								Description: "Optional notes about the ingredient",
							},
						},
						Required: []string{"ingredient_name", "quantity", "unit"},
					},
				},
			},
			Required: []string{"name", "instructions", "ingredients", "difficulty", "servings"},
		},
	}
}

func addIngredientDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: ToolAddIngredient,
		Description: "Adds a new ingredient to the user's inventory. " +
			"Use this when the user asks to add ingredients to their pantry/inventory.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {
					Type:        genai.TypeString,
					Description: "The name of the ingredient",
				},
				"quantity": {
					Type:        genai.TypeNumber,
					Description: "The quantity of the ingredient",
				},
				"unit": {
					Type:        genai.TypeString,
					Description: "Unit of measurement (e.g., pieces, oz, lb, g, kg, cups, tbsp, tsp, ml, l)",
				},
				"category": {
					Type:        genai.TypeString,
					Enum:        store.IngredientCategories,
					Description: "The category of the ingredient",
				},
				"notes": {
					Type:        genai.TypeString,
					Description: "Optional notes about the ingredient",
				},
			},
			Required: []string{"name", "quantity", "unit"},
		},
	}
}
