package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipeshare/internal/models"
	"recipeshare/internal/repositories"
	"recipeshare/internal/utils"
)

const recipeNotAuthorized = "Recipe not found or not authorized"

// IngredientInput is an ingredient as submitted by a client. A non-zero ID
// addresses an existing ingredient during an update.
type IngredientInput struct {
	ID       uint
	Name     string
	Quantity string
}

// StepInput is a step as submitted by a client. A non-zero ID addresses an
// existing step during an update.
type StepInput struct {
	ID          uint
	StepNumber  int
	Description string
}

// RecipeService handles business logic for recipes and their ingredients and steps.
type RecipeService struct {
	recipeRepo repositories.RecipeRepository
	events     EventPublisher
}

// NewRecipeService creates a new RecipeService. events may be nil.
func NewRecipeService(recipeRepo repositories.RecipeRepository, events EventPublisher) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		events:     events,
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Create stores a new recipe owned by ownerID.
func (s *RecipeService) Create(ctx context.Context, title, description string, ownerID uint) (*models.Recipe, error) {
	if blank(title) || blank(description) {
		return nil, validationError("Title and description are required")
	}

	recipe := &models.Recipe{Title: title, Description: description, UserID: ownerID}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	publish(s.events, EventRecipeCreated, map[string]interface{}{
		"recipe_id": recipe.ID,
		"user_id":   ownerID,
		"title":     recipe.Title,
	})
	return recipe, nil
}

// GetAll lists every recipe, most liked first.
func (s *RecipeService) GetAll(ctx context.Context) ([]models.RecipeSummary, error) {
	return s.recipeRepo.List(ctx)
}

// GetByUser lists the recipes owned by userID, most liked first.
func (s *RecipeService) GetByUser(ctx context.Context, userID uint) ([]models.RecipeSummary, error) {
	return s.recipeRepo.ListByUser(ctx, userID)
}

// GetByID returns one recipe with its description rendered as HTML.
func (s *RecipeService) GetByID(ctx context.Context, id uint) (*models.RecipeDetail, error) {
	summary, err := s.recipeRepo.GetSummary(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Recipe not found")
		}
		return nil, err
	}
	return &models.RecipeDetail{
		RecipeSummary:   *summary,
		DescriptionHTML: utils.RenderMarkdown(summary.Description),
	}, nil
}

func validateIngredients(inputs []IngredientInput) error {
	for _, in := range inputs {
		if blank(in.Name) || blank(in.Quantity) {
			return validationError("Each ingredient must contain name and quantity")
		}
	}
	return nil
}

func validateSteps(inputs []StepInput) error {
	for _, in := range inputs {
		if in.StepNumber <= 0 || blank(in.Description) {
			return validationError("Each step must contain stepNumber and description")
		}
	}
	return nil
}

// Update edits title and description and upserts the given ingredients and
// steps, all or nothing. Children missing from the input are kept.
func (s *RecipeService) Update(ctx context.Context, id, callerID uint, title, description string, ingredients []IngredientInput, steps []StepInput) error {
	if blank(title) || blank(description) {
		return validationError("Title and description are required")
	}
	if err := validateIngredients(ingredients); err != nil {
		return err
	}
	if err := validateSteps(steps); err != nil {
		return err
	}

	update := &repositories.RecipeUpdate{
		ID:          id,
		OwnerID:     callerID,
		Title:       title,
		Description: description,
		Ingredients: make([]models.Ingredient, 0, len(ingredients)),
		Steps:       make([]models.Step, 0, len(steps)),
	}
	for _, in := range ingredients {
		update.Ingredients = append(update.Ingredients, models.Ingredient{ID: in.ID, Name: in.Name, Quantity: in.Quantity})
	}
	for _, in := range steps {
		update.Steps = append(update.Steps, models.Step{ID: in.ID, StepNumber: in.StepNumber, Description: in.Description})
	}

	if err := s.recipeRepo.Update(ctx, update); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotOwned):
			return notFound(recipeNotAuthorized)
		case errors.Is(err, repositories.ErrNotFound):
			return notFound("Ingredient or step not found on this recipe")
		}
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	publish(s.events, EventRecipeUpdated, map[string]interface{}{"recipe_id": id, "user_id": callerID})
	return nil
}

// Delete removes a recipe owned by callerID together with all of its children.
func (s *RecipeService) Delete(ctx context.Context, id, callerID uint) error {
	if err := s.recipeRepo.Delete(ctx, id, callerID); err != nil {
		if errors.Is(err, repositories.ErrNotOwned) {
			return notFound(recipeNotAuthorized)
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	publish(s.events, EventRecipeDeleted, map[string]interface{}{"recipe_id": id, "user_id": callerID})
	return nil
}

func (s *RecipeService) requireRecipe(ctx context.Context, id uint) error {
	ok, err := s.recipeRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("Recipe not found")
	}
	return nil
}

// AddIngredients appends a batch of ingredients to a recipe.
func (s *RecipeService) AddIngredients(ctx context.Context, recipeID uint, inputs []IngredientInput) ([]models.Ingredient, error) {
	if len(inputs) == 0 {
		return nil, validationError("Ingredients must be a non-empty array")
	}
	if err := validateIngredients(inputs); err != nil {
		return nil, err
	}
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	ingredients := make([]models.Ingredient, 0, len(inputs))
	for _, in := range inputs {
		ingredients = append(ingredients, models.Ingredient{RecipeID: recipeID, Name: in.Name, Quantity: in.Quantity})
	}
	if err := s.recipeRepo.AddIngredients(ctx, ingredients); err != nil {
		return nil, fmt.Errorf("failed to add ingredients: %w", err)
	}
	return ingredients, nil
}

// GetIngredients lists the ingredients of a recipe.
func (s *RecipeService) GetIngredients(ctx context.Context, recipeID uint) ([]models.Ingredient, error) {
	return s.recipeRepo.ListIngredients(ctx, recipeID)
}

// AddSteps appends a batch of steps to a recipe.
func (s *RecipeService) AddSteps(ctx context.Context, recipeID uint, inputs []StepInput) ([]models.Step, error) {
	if len(inputs) == 0 {
		return nil, validationError("Steps are required and should be a non-empty array")
	}
	if err := validateSteps(inputs); err != nil {
		return nil, err
	}
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	steps := make([]models.Step, 0, len(inputs))
	for _, in := range inputs {
		steps = append(steps, models.Step{RecipeID: recipeID, StepNumber: in.StepNumber, Description: in.Description})
	}
	if err := s.recipeRepo.AddSteps(ctx, steps); err != nil {
		return nil, fmt.Errorf("failed to add steps: %w", err)
	}
	return steps, nil
}

// GetSteps lists the steps of a recipe ordered by step number.
func (s *RecipeService) GetSteps(ctx context.Context, recipeID uint) ([]models.Step, error) {
	return s.recipeRepo.ListSteps(ctx, recipeID)
}
