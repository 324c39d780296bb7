package handlers

import (
	"strconv"

	"recipeshare/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RecipeHandler serves recipes, their ingredients and steps, and search.
type RecipeHandler struct {
	recipeService *services.RecipeService
	searchService *services.SearchService
	validate      *validator.Validate
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService *services.RecipeService, searchService *services.SearchService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		searchService: searchService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the recipe routes. Literal segments go before /:id.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Get("/", h.HandleList)
	recipeRoutes.Post("/", auth, h.HandleCreate)
	recipeRoutes.Get("/search", h.HandleSearch)
	recipeRoutes.Get("/user/:userId", h.HandleListByUser)
	recipeRoutes.Get("/:id", h.HandleGet)
	recipeRoutes.Put("/:id", auth, h.HandleUpdate)
	recipeRoutes.Delete("/:id", auth, h.HandleDelete)

	recipeRoutes.Post("/:recipeId/ingredients", auth, h.HandleAddIngredients)
	recipeRoutes.Get("/:recipeId/ingredients", h.HandleListIngredients)
	recipeRoutes.Post("/:recipeId/steps", auth, h.HandleAddSteps)
	recipeRoutes.Get("/:recipeId/steps", h.HandleListSteps)
}

func (h *RecipeHandler) HandleList(c *fiber.Ctx) error {
	recipes, err := h.recipeService.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipes)
}

func (h *RecipeHandler) HandleListByUser(c *fiber.Ctx) error {
	userID, ok, err := paramID(c, "userId")
	if !ok {
		return err
	}
	recipes, err := h.recipeService.GetByUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipes)
}

func (h *RecipeHandler) HandleGet(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	recipe, err := h.recipeService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// HandleSearch answers GET /recipes/search?query=&minRating=&ingredient=.
func (h *RecipeHandler) HandleSearch(c *fiber.Ctx) error {
	params := services.SearchParams{
		Query:      c.Query("query"),
		Ingredient: c.Query("ingredient"),
	}
	if raw := c.Query("minRating"); raw != "" {
		minRating, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return message(c, fiber.StatusBadRequest, "minRating must be a non-negative integer")
		}
		params.MinRating = &minRating
	}

	recipes, err := h.searchService.Search(c.UserContext(), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipes)
}

// CreateRecipeRequest represents the request body for creating a recipe.
type CreateRecipeRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
}

func (h *RecipeHandler) HandleCreate(c *fiber.Ctx) error {
	callerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req CreateRecipeRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}

	recipe, err := h.recipeService.Create(c.UserContext(), req.Title, req.Description, callerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// IngredientPayload is an ingredient in a request body.
type IngredientPayload struct {
	ID       uint   `json:"id"`
	Name     string `json:"name" validate:"required,max=255"`
	Quantity string `json:"quantity" validate:"required,max=100"`
}

// UpdateStepPayload is a step in an update body.
type UpdateStepPayload struct {
	ID          uint   `json:"id"`
	StepNumber  int    `json:"step_number" validate:"required,gt=0"`
	Description string `json:"description" validate:"required"`
}

// UpdateRecipeRequest represents the request body for a full recipe edit.
type UpdateRecipeRequest struct {
	Title       string              `json:"title" validate:"required,max=255"`
	Description string              `json:"description" validate:"required"`
	Ingredients []IngredientPayload `json:"ingredients" validate:"omitempty,dive"`
	Steps       []UpdateStepPayload `json:"steps" validate:"omitempty,dive"`
}

func toIngredientInputs(in []IngredientPayload) []services.IngredientInput {
	out := make([]services.IngredientInput, 0, len(in))
	for _, i := range in {
		out = append(out, services.IngredientInput{ID: i.ID, Name: i.Name, Quantity: i.Quantity})
	}
	return out
}

func (h *RecipeHandler) HandleUpdate(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	callerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req UpdateRecipeRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}

	steps := make([]services.StepInput, 0, len(req.Steps))
	for _, s := range req.Steps {
		steps = append(steps, services.StepInput{ID: s.ID, StepNumber: s.StepNumber, Description: s.Description})
	}

	err = h.recipeService.Update(c.UserContext(), id, callerID, req.Title, req.Description, toIngredientInputs(req.Ingredients), steps)
	if err != nil {
		return respondError(c, err)
	}
	return message(c, fiber.StatusOK, "Recipe updated successfully")
}

func (h *RecipeHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	callerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	if err := h.recipeService.Delete(c.UserContext(), id, callerID); err != nil {
		return respondError(c, err)
	}
	return message(c, fiber.StatusOK, "Recipe deleted successfully")
}

// AddIngredientsRequest represents the request body for adding ingredients.
type AddIngredientsRequest struct {
	Ingredients []IngredientPayload `json:"ingredients" validate:"required,min=1,dive"`
}

func (h *RecipeHandler) HandleAddIngredients(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	var req AddIngredientsRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}

	ingredients, err := h.recipeService.AddIngredients(c.UserContext(), recipeID, toIngredientInputs(req.Ingredients))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ingredients)
}

func (h *RecipeHandler) HandleListIngredients(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	ingredients, err := h.recipeService.GetIngredients(c.UserContext(), recipeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ingredients)
}

// StepPayload is a step in an add-steps body.
type StepPayload struct {
	StepNumber  int    `json:"stepNumber" validate:"required,gt=0"`
	Description string `json:"description" validate:"required"`
}

// AddStepsRequest represents the request body for adding steps.
type AddStepsRequest struct {
	Steps []StepPayload `json:"steps" validate:"required,min=1,dive"`
}

func (h *RecipeHandler) HandleAddSteps(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	var req AddStepsRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}

	inputs := make([]services.StepInput, 0, len(req.Steps))
	for _, s := range req.Steps {
		inputs = append(inputs, services.StepInput{StepNumber: s.StepNumber, Description: s.Description})
	}
	steps, err := h.recipeService.AddSteps(c.UserContext(), recipeID, inputs)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(steps)
}

func (h *RecipeHandler) HandleListSteps(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	steps, err := h.recipeService.GetSteps(c.UserContext(), recipeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(steps)
}
