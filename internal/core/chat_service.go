package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"

	"cookcraft.app/server/internal/store"
)

// maxToolRounds bounds the tool-call loop so a model that keeps requesting
// read tools cannot stall a request forever.
const maxToolRounds = 8

// ErrToolLoopExceeded is returned when the model is still requesting tools
// after maxToolRounds rounds. Callers should surface it as a recoverable
// "could not complete" condition.
var ErrToolLoopExceeded = errors.New("tool call loop exceeded maximum rounds")

// ChatTurn is one role-tagged unit of conversation text. History is held by
// the caller and resent with every request; nothing is persisted here.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

type ChatFlags struct {
	UseDietaryPreferences    bool
	UsePreferredCuisines     bool
	OnlyInventoryIngredients bool
}

// FunctionCall is a tool call surfaced verbatim to the caller.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// ChatOutcome is the terminal result of one exchange. PendingCalls is
// non-empty exactly when the model requested a write tool: the orchestrator
// never executes those, it hands them back so the caller can persist them
// through the ordinary accessors after explicit user confirmation.
type ChatOutcome struct {
	Text         string
	PendingCalls []FunctionCall
}

// AwaitsConfirmation reports whether the exchange ended on a write tool
// that still needs the user's go-ahead.
func (o *ChatOutcome) AwaitsConfirmation() bool {
	return len(o.PendingCalls) > 0
}

// ChatModel is the generative model dependency of the orchestrator.
type ChatModel interface {
	GetChatResponse(ctx context.Context, systemInstruction string, history []*genai.Content) (*genai.GenerateContentResponse, error)
}

// InventoryReader and ProfileReader are the only data access the
// orchestrator holds. It has no write-capable dependency at all, so a tool
// call can never mutate user data from inside the loop.
type InventoryReader interface {
	List(userID int64) ([]store.Ingredient, error)
}

type ProfileReader interface {
	Get(userID int64) (*store.Profile, error)
}

type ChatService struct {
	model     ChatModel
	inventory InventoryReader
	profiles  ProfileReader
}

func NewChatService(model ChatModel, inventory InventoryReader, profiles ProfileReader) *ChatService {
	return &ChatService{
		model:     model,
		inventory: inventory,
		profiles:  profiles,
	}
}

// Converse runs one tool-augmented exchange: it composes the transcript,
// invokes the model, executes read tools and folds their results back in,
// and terminates on a plain answer, a pending write tool, or the round cap.
func (s *ChatService) Converse(ctx context.Context, userID int64, message string, history []ChatTurn, flags ChatFlags) (*ChatOutcome, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []genai.Part{genai.Text(message)},
	})

	systemInstruction := buildSystemInstruction(flags)

	for round := 0; round < maxToolRounds; round++ {
		resp, err := s.model.GetChatResponse(ctx, systemInstruction, contents)
		if err != nil {
			return nil, fmt.Errorf("model invocation failed: %w", err)
		}

		content := primaryContent(resp)
		calls := extractFunctionCalls(content)
		text := responseText(content)

		if len(calls) == 0 {
			return &ChatOutcome{Text: text}, nil
		}

		// A write tool short-circuits the whole batch: nothing in it is
		// executed, the calls go back to the caller for confirmation.
		if anyWriteCall(calls) {
			pending := make([]FunctionCall, 0, len(calls))
			for _, call := range calls {
				pending = append(pending, FunctionCall{Name: call.Name, Args: call.Args})
			}
			return &ChatOutcome{Text: text, PendingCalls: pending}, nil
		}

		// Read tools only: execute sequentially in the model's order and
		// fold the results into the transcript for the next round.
		results := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			results = append(results, genai.FunctionResponse{
				Name:     call.Name,
				Response: s.executeReadCall(userID, call),
			})
		}

		contents = append(contents, content)
		contents = append(contents, &genai.Content{
			Role:  "user",
			Parts: results,
		})
	}

	return nil, ErrToolLoopExceeded
}

// executeReadCall runs a single read tool. Errors are folded into the tool
// result so the model can react to them in-context instead of aborting the
// exchange.
func (s *ChatService) executeReadCall(userID int64, call genai.FunctionCall) map[string]any {
	switch call.Name {
	case ToolGetUserIngredients:
		ingredients, err := s.inventory.List(userID)
		if err != nil {
			log.Printf("get_user_ingredients failed for user %d: %v", userID, err)
			return map[string]any{"error": err.Error()}
		}
		return toolResultPayload(ingredients)
	case ToolGetUserProfile:
		profile, err := s.profiles.Get(userID)
		if err != nil {
			log.Printf("get_user_profile failed for user %d: %v", userID, err)
			return map[string]any{"error": err.Error()}
		}
		return toolResultPayload(profile)
	default:
		return map[string]any{"error": fmt.Sprintf("unknown tool %q", call.Name)}
	}
}

// toolResultPayload converts a value into the plain map/slice/scalar shape
// the genai function response transport accepts.
func toolResultPayload(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{"result": decoded}
}

func primaryContent(resp *genai.GenerateContentResponse) *genai.Content {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	return resp.Candidates[0].Content
}

func extractFunctionCalls(content *genai.Content) []genai.FunctionCall {
	if content == nil {
		return nil
	}
	var calls []genai.FunctionCall
	for _, part := range content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

func responseText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var text string
	for _, part := range content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	return text
}

func anyWriteCall(calls []genai.FunctionCall) bool {
	for _, call := range calls {
		if isWriteTool(call.Name) {
			return true
		}
	}
	return false
}

func buildSystemInstruction(flags ChatFlags) string {
	var preferencesNote string
	switch {
	case !flags.UseDietaryPreferences && !flags.UsePreferredCuisines:
		preferencesNote = "\n- IGNORE dietary preferences and preferred cuisines (user has disabled them)"
	case !flags.UseDietaryPreferences:
		preferencesNote = "\n- IGNORE dietary preferences (user has disabled them), but respect preferred cuisines"
	case !flags.UsePreferredCuisines:
		preferencesNote = "\n- IGNORE preferred cuisines (user has disabled them), but respect dietary preferences"
	default:
		preferencesNote = "\n- Respect both dietary preferences and preferred cuisines from the user's profile"
	}

	var inventoryNote string
	if flags.OnlyInventoryIngredients {
		inventoryNote = "\n- CRITICAL: ONLY suggest recipes using ingredients from the user's inventory. " +
			"DO NOT suggest any ingredients the user doesn't already have. If the user doesn't have enough " +
			"ingredients for a complete recipe, suggest what they can make with what they have or inform them " +
			"they need more ingredients."
	} else {
		inventoryNote = "\n- Suggest ANY appropriate recipes based on the user's request, without limiting to inventory ingredients" +
			"\n- ONLY consider inventory limitations if the user EXPLICITLY asks (e.g., 'what can I make with my ingredients', 'use what I have', 'based on my fridge')" +
			"\n- You can still check inventory for context, but do NOT let it restrict your recipe suggestions unless asked"
	}

	return `You are CookCraft AI, a helpful cooking assistant integrated into the CookCraft recipe management platform.

Your responsibilities:
1. Help users generate recipe ideas based on their available ingredients
2. Respect user dietary preferences, allergies, and cuisine preferences
3. Create detailed, easy-to-follow recipes
4. Help users add ingredients to their inventory
5. ONLY respond to food, cooking, recipe, and ingredient-related queries

Important guidelines:
- Always check the user's current ingredients and profile before suggesting recipes` + inventoryNote + `
- ALWAYS respect allergies listed in the user's profile (CRITICAL - never suggest recipes with allergens)` + preferencesNote + `
- Consider the difficulty level and time constraints mentioned by the user (e.g., "under 30 minutes", "beginner", "fancy")
- Provide clear, numbered instructions
- Include accurate measurements and cooking times
- If a user asks something completely unrelated to food/cooking/recipes (like math, history, general knowledge), politely decline and remind them you're a cooking assistant

CRITICAL - When to use functions:
- Call get_user_profile at the start for dietary preferences and allergies
- ONLY call get_user_ingredients if: (1) onlyInventoryIngredients mode is enabled, OR (2) user explicitly asks about their ingredients/what they can make
- DO NOT call create_recipe automatically when suggesting recipes
- ONLY call create_recipe when the user EXPLICITLY says "save this recipe", "add this to my recipes", "create this recipe", or similar confirmation
- Call add_ingredient when the user wants to add items to their inventory

Response format for recipe suggestions:
- First, present the complete recipe with:
  * Recipe name
  * Description
  * Prep time and cook time
  * Difficulty level
  * Number of servings
  * Full ingredient list with measurements
  * Step-by-step numbered instructions
  * Cuisine type
- After presenting the recipe, ask: "Would you like me to save this recipe to your collection?"
- Wait for user confirmation before calling create_recipe
- For ingredient additions, confirm what was added`
}
