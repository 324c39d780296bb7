package repositories

import (
	"context"

	"recipeshare/internal/models"
)

// RecipeUpdate carries a full edit of a recipe aggregate. Ingredients and steps
// with a non-zero ID are updated in place, the rest are inserted.
type RecipeUpdate struct {
	ID          uint
	OwnerID     uint
	Title       string
	Description string
	Ingredients []models.Ingredient
	Steps       []models.Step
}

// SearchFilter narrows a title search. Zero values disable a filter.
type SearchFilter struct {
	Title      string
	MinLikes   *int64
	Ingredient string
}

// RecipeRepository defines the interface for recipe aggregate data access.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]models.RecipeSummary, error)
	ListByUser(ctx context.Context, userID uint) ([]models.RecipeSummary, error)
	GetSummary(ctx context.Context, id uint) (*models.RecipeSummary, error)
	Search(ctx context.Context, filter SearchFilter) ([]models.RecipeSummary, error)
	Update(ctx context.Context, update *RecipeUpdate) error
	Delete(ctx context.Context, id, ownerID uint) error

	AddIngredients(ctx context.Context, ingredients []models.Ingredient) error
	ListIngredients(ctx context.Context, recipeID uint) ([]models.Ingredient, error)
	AddSteps(ctx context.Context, steps []models.Step) error
	ListSteps(ctx context.Context, recipeID uint) ([]models.Step, error)
}
