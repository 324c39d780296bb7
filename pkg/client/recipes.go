package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"recipeshare/internal/models"
)

// Ingredient is an ingredient sent to the API. ID is set only when editing an
// existing row.
type Ingredient struct {
	ID       uint   `json:"id,omitempty"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Step is a step sent to the API. ID is set only when editing an existing row.
type Step struct {
	ID          uint   `json:"id,omitempty"`
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// RecipeUpdate is a full edit of a recipe. Ingredients and steps without an ID
// are added; the others are changed in place.
type RecipeUpdate struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
	Steps       []Step       `json:"steps,omitempty"`
}

// SearchOptions narrows a title search. Zero values are omitted.
type SearchOptions struct {
	Query      string
	MinRating  *int64
	Ingredient string
}

// ListRecipes returns every recipe, most liked first.
func (c *Client) ListRecipes(ctx context.Context) ([]models.RecipeSummary, error) {
	var recipes []models.RecipeSummary
	err := c.doJSON(ctx, http.MethodGet, "/api/recipes", nil, &recipes)
	return recipes, err
}

// SearchRecipes searches recipe titles.
func (c *Client) SearchRecipes(ctx context.Context, opts SearchOptions) ([]models.RecipeSummary, error) {
	q := url.Values{}
	q.Set("query", opts.Query)
	if opts.MinRating != nil {
		q.Set("minRating", strconv.FormatInt(*opts.MinRating, 10))
	}
	if opts.Ingredient != "" {
		q.Set("ingredient", opts.Ingredient)
	}

	var recipes []models.RecipeSummary
	err := c.doJSON(ctx, http.MethodGet, "/api/recipes/search?"+q.Encode(), nil, &recipes)
	return recipes, err
}

// RecipesByUser returns the recipes owned by userID.
func (c *Client) RecipesByUser(ctx context.Context, userID uint) ([]models.RecipeSummary, error) {
	var recipes []models.RecipeSummary
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/recipes/user/%d", userID), nil, &recipes)
	return recipes, err
}

// GetRecipe returns a single recipe with its rendered description.
func (c *Client) GetRecipe(ctx context.Context, id uint) (*models.RecipeDetail, error) {
	var recipe models.RecipeDetail
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/recipes/%d", id), nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe creates a recipe owned by the signed-in user.
func (c *Client) CreateRecipe(ctx context.Context, title, description string) (*models.Recipe, error) {
	var recipe models.Recipe
	body := map[string]string{"title": title, "description": description}
	if err := c.doJSON(ctx, http.MethodPost, "/api/recipes", body, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe edits a recipe the signed-in user owns.
func (c *Client) UpdateRecipe(ctx context.Context, id uint, update RecipeUpdate) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/recipes/%d", id), update, nil)
}

// DeleteRecipe deletes a recipe the signed-in user owns, with all of its children.
func (c *Client) DeleteRecipe(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/recipes/%d", id), nil, nil)
}

// AddIngredients appends ingredients to a recipe.
func (c *Client) AddIngredients(ctx context.Context, recipeID uint, ingredients []Ingredient) ([]models.Ingredient, error) {
	var added []models.Ingredient
	body := map[string][]Ingredient{"ingredients": ingredients}
	err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/recipes/%d/ingredients", recipeID), body, &added)
	return added, err
}

// Ingredients lists a recipe's ingredients.
func (c *Client) Ingredients(ctx context.Context, recipeID uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/recipes/%d/ingredients", recipeID), nil, &ingredients)
	return ingredients, err
}

type newStep struct {
	StepNumber  int    `json:"stepNumber"`
	Description string `json:"description"`
}

// AddSteps appends steps to a recipe. Step IDs are ignored.
func (c *Client) AddSteps(ctx context.Context, recipeID uint, steps []Step) ([]models.Step, error) {
	payload := make([]newStep, 0, len(steps))
	for _, s := range steps {
		payload = append(payload, newStep{StepNumber: s.StepNumber, Description: s.Description})
	}

	var added []models.Step
	body := map[string][]newStep{"steps": payload}
	err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/recipes/%d/steps", recipeID), body, &added)
	return added, err
}

// Steps lists a recipe's steps in order.
func (c *Client) Steps(ctx context.Context, recipeID uint) ([]models.Step, error) {
	var steps []models.Step
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/recipes/%d/steps", recipeID), nil, &steps)
	return steps, err
}
