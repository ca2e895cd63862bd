package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrNotFound is returned when a record does not exist or is not visible
// to the requesting user.
var ErrNotFound = errors.New("record not found")

const defaultServingSize = 2

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        external_user_id TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS profiles (
        user_id INTEGER PRIMARY KEY,
        dietary_preferences TEXT NOT NULL DEFAULT '[]', -- JSON array of strings
        allergies TEXT NOT NULL DEFAULT '[]',
        preferred_cuisines TEXT NOT NULL DEFAULT '[]',
        default_serving_size INTEGER NOT NULL DEFAULT 2,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS ingredients (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        name TEXT NOT NULL,
        quantity REAL NOT NULL CHECK (quantity >= 0),
        unit TEXT NOT NULL,
        category TEXT,
        notes TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS recipes (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        name TEXT NOT NULL,
        description TEXT,
        instructions TEXT NOT NULL,
        prep_time INTEGER,
        cook_time INTEGER,
        difficulty TEXT CHECK (difficulty IN ('easy', 'medium', 'hard')),
        rating INTEGER CHECK (rating BETWEEN 1 AND 5),
        servings INTEGER NOT NULL CHECK (servings >= 1),
        cuisine_type TEXT,
        source TEXT NOT NULL CHECK (source IN ('user', 'ai', 'duplicate')),
        parent_recipe_id TEXT,
        image_url TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS recipe_ingredients (
        id TEXT PRIMARY KEY, -- UUID
        recipe_id TEXT NOT NULL,
        ingredient_name TEXT NOT NULL,
        quantity REAL NOT NULL,
        unit TEXT NOT NULL,
        notes TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (recipe_id) REFERENCES recipes (id)
    );

    CREATE TABLE IF NOT EXISTS meal_history (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        recipe_id TEXT,
        meal_name TEXT NOT NULL,
        servings REAL NOT NULL,
        eaten_at DATETIME NOT NULL,
        notes TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id),
        FOREIGN KEY (recipe_id) REFERENCES recipes (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) GetUserByExternalID(externalUserID string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE external_user_id = ?", externalUserID).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts the user together with an empty default profile.
func (s *SQLiteStore) CreateUser(externalUserID, passwordHash string) (*User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin user insert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO users (external_user_id, password_hash) VALUES (?, ?)", externalUserID, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()

	_, err = tx.Exec("INSERT INTO profiles (user_id, default_serving_size) VALUES (?, ?)", id, defaultServingSize)
	if err != nil {
		return nil, fmt.Errorf("failed to insert default profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user insert: %w", err)
	}
	return s.getUserByID(id)
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE id = ?", id).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Profile methods

func (s *SQLiteStore) GetProfile(userID int64) (*Profile, error) {
	var p Profile
	var dietary, allergies, cuisines string
	err := s.db.QueryRow("SELECT user_id, dietary_preferences, allergies, preferred_cuisines, default_serving_size, created_at, updated_at FROM profiles WHERE user_id = ?", userID).
		Scan(&p.UserID, &dietary, &allergies, &cuisines, &p.DefaultServingSize, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	if err := decodeStringList(dietary, &p.DietaryPreferences); err != nil {
		return nil, fmt.Errorf("failed to decode dietary preferences: %w", err)
	}
	if err := decodeStringList(allergies, &p.Allergies); err != nil {
		return nil, fmt.Errorf("failed to decode allergies: %w", err)
	}
	if err := decodeStringList(cuisines, &p.PreferredCuisines); err != nil {
		return nil, fmt.Errorf("failed to decode preferred cuisines: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) UpdateProfile(userID int64, updates UpdateProfileInput) (*Profile, error) {
	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	if updates.DietaryPreferences != nil {
		encoded, err := encodeStringList(*updates.DietaryPreferences)
		if err != nil {
			return nil, err
		}
		setClauses = append(setClauses, "dietary_preferences = ?")
		args = append(args, encoded)
	}
	if updates.Allergies != nil {
		encoded, err := encodeStringList(*updates.Allergies)
		if err != nil {
			return nil, err
		}
		setClauses = append(setClauses, "allergies = ?")
		args = append(args, encoded)
	}
	if updates.PreferredCuisines != nil {
		encoded, err := encodeStringList(*updates.PreferredCuisines)
		if err != nil {
			return nil, err
		}
		setClauses = append(setClauses, "preferred_cuisines = ?")
		args = append(args, encoded)
	}
	if updates.DefaultServingSize != nil {
		setClauses = append(setClauses, "default_serving_size = ?")
		args = append(args, *updates.DefaultServingSize)
	}

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE profiles SET %s WHERE user_id = ?", strings.Join(setClauses, ", "))
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute profile update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetProfile(userID)
}

func encodeStringList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(encoded), nil
}

func decodeStringList(encoded string, target *[]string) error {
	if encoded == "" {
		*target = []string{}
		return nil
	}
	return json.Unmarshal([]byte(encoded), target)
}

// Ingredient methods

func (s *SQLiteStore) ListIngredients(userID int64) ([]Ingredient, error) {
	rows, err := s.db.Query("SELECT id, user_id, name, quantity, unit, category, notes, created_at, updated_at FROM ingredients WHERE user_id = ? ORDER BY category ASC, name ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, *ing)
	}
	return ingredients, rows.Err()
}

func (s *SQLiteStore) GetIngredient(id string, userID int64) (*Ingredient, error) {
	row := s.db.QueryRow("SELECT id, user_id, name, quantity, unit, category, notes, created_at, updated_at FROM ingredients WHERE id = ? AND user_id = ?", id, userID)
	ing, err := scanIngredient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ing, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIngredient(row rowScanner) (*Ingredient, error) {
	var ing Ingredient
	var category, notes sql.NullString
	err := row.Scan(&ing.ID, &ing.UserID, &ing.Name, &ing.Quantity, &ing.Unit, &category, &notes, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan ingredient row: %w", err)
	}
	if category.Valid {
		ing.Category = &category.String
	}
	if notes.Valid {
		ing.Notes = &notes.String
	}
	return &ing, nil
}

func (s *SQLiteStore) CreateIngredient(userID int64, input CreateIngredientInput) (*Ingredient, error) {
	id := uuid.NewString()
	now := time.Now()

	stmt, err := s.db.Prepare("INSERT INTO ingredients (id, user_id, name, quantity, unit, category, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare ingredient insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(id, userID, input.Name, input.Quantity, input.Unit, input.Category, input.Notes, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ingredient insert: %w", err)
	}
	return &Ingredient{
		ID:        id,
		UserID:    userID,
		Name:      input.Name,
		Quantity:  input.Quantity,
		Unit:      input.Unit,
		Category:  input.Category,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateIngredient(id string, userID int64, updates UpdateIngredientInput) (*Ingredient, error) {
	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	if updates.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, *updates.Name)
	}
	if updates.Quantity != nil {
		setClauses = append(setClauses, "quantity = ?")
		args = append(args, *updates.Quantity)
	}
	if updates.Unit != nil {
		setClauses = append(setClauses, "unit = ?")
		args = append(args, *updates.Unit)
	}
	if updates.Category != nil {
		setClauses = append(setClauses, "category = ?")
		args = append(args, *updates.Category)
	}
	if updates.Notes != nil {
		setClauses = append(setClauses, "notes = ?")
		args = append(args, *updates.Notes)
	}

	args = append(args, id, userID)
	query := fmt.Sprintf("UPDATE ingredients SET %s WHERE id = ? AND user_id = ?", strings.Join(setClauses, ", "))
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ingredient update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetIngredient(id, userID)
}

func (s *SQLiteStore) DeleteIngredient(id string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM ingredients WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Recipe methods

func (s *SQLiteStore) ListRecipes(userID int64) ([]RecipeWithIngredients, error) {
	rows, err := s.db.Query("SELECT id, user_id, name, description, instructions, prep_time, cook_time, difficulty, rating, servings, cuisine_type, source, parent_recipe_id, image_url, created_at, updated_at FROM recipes WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []RecipeWithIngredients
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, RecipeWithIngredients{Recipe: *recipe})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe rows: %w", err)
	}

	for i := range recipes {
		lines, err := s.getRecipeIngredients(recipes[i].ID)
		if err != nil {
			return nil, err
		}
		recipes[i].Ingredients = lines
	}
	return recipes, nil
}

func (s *SQLiteStore) GetRecipe(id string, userID int64) (*RecipeWithIngredients, error) {
	row := s.db.QueryRow("SELECT id, user_id, name, description, instructions, prep_time, cook_time, difficulty, rating, servings, cuisine_type, source, parent_recipe_id, image_url, created_at, updated_at FROM recipes WHERE id = ? AND user_id = ?", id, userID)
	recipe, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	lines, err := s.getRecipeIngredients(id)
	if err != nil {
		return nil, err
	}
	return &RecipeWithIngredients{Recipe: *recipe, Ingredients: lines}, nil
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var r Recipe
	var description, difficulty, cuisineType, parentRecipeID, imageURL sql.NullString
	var prepTime, cookTime, rating sql.NullInt64
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &description, &r.Instructions, &prepTime, &cookTime, &difficulty, &rating, &r.Servings, &cuisineType, &r.Source, &parentRecipeID, &imageURL, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan recipe row: %w", err)
	}
	if description.Valid {
		r.Description = &description.String
	}
	if difficulty.Valid {
		r.Difficulty = &difficulty.String
	}
	if cuisineType.Valid {
		r.CuisineType = &cuisineType.String
	}
	if parentRecipeID.Valid {
		r.ParentRecipeID = &parentRecipeID.String
	}
	if imageURL.Valid {
		r.ImageURL = &imageURL.String
	}
	if prepTime.Valid {
		v := int(prepTime.Int64)
		r.PrepTime = &v
	}
	if cookTime.Valid {
		v := int(cookTime.Int64)
		r.CookTime = &v
	}
	if rating.Valid {
		v := int(rating.Int64)
		r.Rating = &v
	}
	return &r, nil
}

func (s *SQLiteStore) getRecipeIngredients(recipeID string) ([]RecipeIngredient, error) {
	rows, err := s.db.Query("SELECT id, recipe_id, ingredient_name, quantity, unit, notes, created_at FROM recipe_ingredients WHERE recipe_id = ? ORDER BY created_at ASC, id ASC", recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer rows.Close()

	var lines []RecipeIngredient
	for rows.Next() {
		var line RecipeIngredient
		var notes sql.NullString
		if err := rows.Scan(&line.ID, &line.RecipeID, &line.IngredientName, &line.Quantity, &line.Unit, &notes, &line.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient row: %w", err)
		}
		if notes.Valid {
			line.Notes = &notes.String
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// CreateRecipe inserts the recipe and its ingredient lines as one
// transaction.
func (s *SQLiteStore) CreateRecipe(userID int64, input CreateRecipeInput) (*RecipeWithIngredients, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin recipe insert: %w", err)
	}
	defer tx.Rollback()

	recipeID := uuid.NewString()
	now := time.Now()
	_, err = tx.Exec(
		"INSERT INTO recipes (id, user_id, name, description, instructions, prep_time, cook_time, difficulty, rating, servings, cuisine_type, source, parent_recipe_id, image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		recipeID, userID, input.Name, input.Description, input.Instructions, input.PrepTime, input.CookTime, input.Difficulty, input.Rating, input.Servings, input.CuisineType, input.Source, input.ParentRecipeID, input.ImageURL, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert recipe: %w", err)
	}

	for _, line := range input.Ingredients {
		_, err = tx.Exec(
			"INSERT INTO recipe_ingredients (id, recipe_id, ingredient_name, quantity, unit, notes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			uuid.NewString(), recipeID, line.IngredientName, line.Quantity, line.Unit, line.Notes, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert recipe ingredient %q: %w", line.IngredientName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recipe insert: %w", err)
	}
	return s.GetRecipe(recipeID, userID)
}

func (s *SQLiteStore) UpdateRecipe(id string, userID int64, updates UpdateRecipeInput) (*Recipe, error) {
	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	if updates.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, *updates.Name)
	}
	if updates.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *updates.Description)
	}
	if updates.Instructions != nil {
		setClauses = append(setClauses, "instructions = ?")
		args = append(args, *updates.Instructions)
	}
	if updates.PrepTime != nil {
		setClauses = append(setClauses, "prep_time = ?")
		args = append(args, *updates.PrepTime)
	}
	if updates.CookTime != nil {
		setClauses = append(setClauses, "cook_time = ?")
		args = append(args, *updates.CookTime)
	}
	if updates.Difficulty != nil {
		setClauses = append(setClauses, "difficulty = ?")
		args = append(args, *updates.Difficulty)
	}
	if updates.Rating != nil {
		setClauses = append(setClauses, "rating = ?")
		args = append(args, *updates.Rating)
	}
	if updates.Servings != nil {
		setClauses = append(setClauses, "servings = ?")
		args = append(args, *updates.Servings)
	}
	if updates.CuisineType != nil {
		setClauses = append(setClauses, "cuisine_type = ?")
		args = append(args, *updates.CuisineType)
	}
	if updates.ImageURL != nil {
		setClauses = append(setClauses, "image_url = ?")
		args = append(args, *updates.ImageURL)
	}

	args = append(args, id, userID)
	query := fmt.Sprintf("UPDATE recipes SET %s WHERE id = ? AND user_id = ?", strings.Join(setClauses, ", "))
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute recipe update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrNotFound
	}

	recipe, err := s.GetRecipe(id, userID)
	if err != nil {
		return nil, err
	}
	return &recipe.Recipe, nil
}

func (s *SQLiteStore) DeleteRecipe(id string, userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin recipe delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM recipes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete recipe ingredients: %w", err)
	}
	return tx.Commit()
}

// Meal history methods

func (s *SQLiteStore) ListMeals(userID int64) ([]MealWithRecipe, error) {
	rows, err := s.db.Query("SELECT id, user_id, recipe_id, meal_name, servings, eaten_at, notes, created_at FROM meal_history WHERE user_id = ? ORDER BY eaten_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal history: %w", err)
	}
	defer rows.Close()

	var meals []MealWithRecipe
	for rows.Next() {
		var m MealHistory
		var recipeID, notes sql.NullString
		if err := rows.Scan(&m.ID, &m.UserID, &recipeID, &m.MealName, &m.Servings, &m.EatenAt, &notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal row: %w", err)
		}
		if recipeID.Valid {
			m.RecipeID = &recipeID.String
		}
		if notes.Valid {
			m.Notes = &notes.String
		}
		meals = append(meals, MealWithRecipe{MealHistory: m})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal rows: %w", err)
	}

	for i := range meals {
		if meals[i].RecipeID == nil {
			continue
		}
		recipe, err := s.GetRecipe(*meals[i].RecipeID, userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // Recipe deleted after the meal was logged
			}
			return nil, err
		}
		meals[i].Recipe = &recipe.Recipe
	}
	return meals, nil
}

func (s *SQLiteStore) CreateMeal(userID int64, input CreateMealInput) (*MealHistory, error) {
	id := uuid.NewString()
	now := time.Now()
	eatenAt := input.EatenAt
	if eatenAt.IsZero() {
		eatenAt = now
	}

	stmt, err := s.db.Prepare("INSERT INTO meal_history (id, user_id, recipe_id, meal_name, servings, eaten_at, notes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare meal insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(id, userID, input.RecipeID, input.MealName, input.Servings, eatenAt, input.Notes, now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute meal insert: %w", err)
	}
	return &MealHistory{
		ID:        id,
		UserID:    userID,
		RecipeID:  input.RecipeID,
		MealName:  input.MealName,
		Servings:  input.Servings,
		EatenAt:   eatenAt,
		Notes:     input.Notes,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) DeleteMeal(id string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM meal_history WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
