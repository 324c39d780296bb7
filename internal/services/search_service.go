package services

import (
	"context"
	"strings"

	"recipeshare/internal/models"
	"recipeshare/internal/repositories"
)

// SearchParams are the inputs of a recipe search. Query is required.
type SearchParams struct {
	Query      string
	MinRating  *int64 // minimum like count
	Ingredient string
}

// SearchService finds recipes by title with optional filters.
type SearchService struct {
	recipeRepo repositories.RecipeRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(recipeRepo repositories.RecipeRepository) *SearchService {
	return &SearchService{recipeRepo: recipeRepo}
}

// Search returns recipes whose title contains the query, most liked first.
func (s *SearchService) Search(ctx context.Context, params SearchParams) ([]models.RecipeSummary, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return nil, validationError("Search query is required")
	}
	if params.MinRating != nil && *params.MinRating < 0 {
		return nil, validationError("minRating must be a non-negative integer")
	}

	return s.recipeRepo.Search(ctx, repositories.SearchFilter{
		Title:      query,
		MinLikes:   params.MinRating,
		Ingredient: strings.TrimSpace(params.Ingredient),
	})
}
