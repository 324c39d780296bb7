package repositories

import (
	"context"
	"fmt"
	"strings"

	"recipeshare/internal/models"

	"gorm.io/gorm"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user text into a LIKE pattern matching it as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// summaries is the base query for every recipe listing: recipe columns, the
// author's name and the like count, most liked first.
func (r *GORMRecipeRepository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("recipes AS r").
		Select("r.id, r.title, r.description, r.user_id, r.created_at, " +
			"COALESCE(l.like_count, 0) AS like_count, u.name AS author").
		Joins("JOIN users u ON u.id = r.user_id").
		Joins("LEFT JOIN (SELECT recipe_id, COUNT(*) AS like_count FROM likes GROUP BY recipe_id) l ON l.recipe_id = r.id").
		Order("COALESCE(l.like_count, 0) DESC").
		Order("r.id ASC")
}

// Create creates a new recipe in the database.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Exists reports whether a recipe with the given id is stored.
func (r *GORMRecipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check recipe %d: %w", id, err)
	}
	return count > 0, nil
}

// List returns every recipe summary.
func (r *GORMRecipeRepository) List(ctx context.Context) ([]models.RecipeSummary, error) {
	recipes := []models.RecipeSummary{}
	if err := r.summaries(ctx).Scan(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// ListByUser returns the summaries of the recipes owned by userID.
func (r *GORMRecipeRepository) ListByUser(ctx context.Context, userID uint) ([]models.RecipeSummary, error) {
	recipes := []models.RecipeSummary{}
	if err := r.summaries(ctx).Where("r.user_id = ?", userID).Scan(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes of user %d: %w", userID, err)
	}
	return recipes, nil
}

// GetSummary retrieves a single recipe summary by its ID.
func (r *GORMRecipeRepository) GetSummary(ctx context.Context, id uint) (*models.RecipeSummary, error) {
	var recipes []models.RecipeSummary
	if err := r.summaries(ctx).Where("r.id = ?", id).Limit(1).Scan(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipe by ID %d: %w", id, err)
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("recipe with ID %d not found: %w", id, ErrNotFound)
	}
	return &recipes[0], nil
}

// Search matches titles case-insensitively and applies the optional filters.
func (r *GORMRecipeRepository) Search(ctx context.Context, filter SearchFilter) ([]models.RecipeSummary, error) {
	q := r.summaries(ctx).Where(`LOWER(r.title) LIKE LOWER(?) ESCAPE '\'`, containsPattern(filter.Title))
	if filter.MinLikes != nil {
		q = q.Where("COALESCE(l.like_count, 0) >= ?", *filter.MinLikes)
	}
	if filter.Ingredient != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM ingredients i WHERE i.recipe_id = r.id AND LOWER(i.name) LIKE LOWER(?) ESCAPE '\')`,
			containsPattern(filter.Ingredient))
	}

	recipes := []models.RecipeSummary{}
	if err := q.Scan(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}

// Update applies a RecipeUpdate atomically. The recipe row must belong to
// update.OwnerID and every child carrying an ID must belong to the recipe,
// otherwise nothing is written.
func (r *GORMRecipeRepository) Update(ctx context.Context, update *RecipeUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).
			Where("id = ? AND user_id = ?", update.ID, update.OwnerID).
			Updates(map[string]interface{}{
				"title":       update.Title,
				"description": update.Description,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update recipe %d: %w", update.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("update of recipe %d: %w", update.ID, ErrNotOwned)
		}

		for i := range update.Ingredients {
			ing := &update.Ingredients[i]
			ing.RecipeID = update.ID
			if ing.ID == 0 {
				if err := tx.Create(ing).Error; err != nil {
					return fmt.Errorf("failed to add ingredient to recipe %d: %w", update.ID, err)
				}
				continue
			}
			res := tx.Model(&models.Ingredient{}).
				Where("id = ? AND recipe_id = ?", ing.ID, update.ID).
				Updates(map[string]interface{}{"name": ing.Name, "quantity": ing.Quantity})
			if res.Error != nil {
				return fmt.Errorf("failed to update ingredient %d: %w", ing.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("ingredient %d on recipe %d: %w", ing.ID, update.ID, ErrNotFound)
			}
		}

		for i := range update.Steps {
			step := &update.Steps[i]
			step.RecipeID = update.ID
			if step.ID == 0 {
				if err := tx.Create(step).Error; err != nil {
					return fmt.Errorf("failed to add step to recipe %d: %w", update.ID, err)
				}
				continue
			}
			res := tx.Model(&models.Step{}).
				Where("id = ? AND recipe_id = ?", step.ID, update.ID).
				Updates(map[string]interface{}{"step_number": step.StepNumber, "description": step.Description})
			if res.Error != nil {
				return fmt.Errorf("failed to update step %d: %w", step.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("step %d on recipe %d: %w", step.ID, update.ID, ErrNotFound)
			}
		}
		return nil
	})
}

// deleteRecipeChildren removes likes, comments, photos, steps and ingredients of
// the recipes selected by the recipe_id condition.
func deleteRecipeChildren(tx *gorm.DB, cond string, args ...interface{}) error {
	children := []interface{}{
		&models.Like{},
		&models.Comment{},
		&models.Photo{},
		&models.Step{},
		&models.Ingredient{},
	}
	for _, child := range children {
		if err := tx.Where(cond, args...).Delete(child).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a recipe and all of its children in one transaction.
func (r *GORMRecipeRepository) Delete(ctx context.Context, id, ownerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteRecipeChildren(tx, "recipe_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete children of recipe %d: %w", id, err)
		}
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Recipe{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete of recipe %d: %w", id, ErrNotOwned)
		}
		return nil
	})
}

// AddIngredients inserts the batch with a single statement.
func (r *GORMRecipeRepository) AddIngredients(ctx context.Context, ingredients []models.Ingredient) error {
	if err := r.db.WithContext(ctx).Create(&ingredients).Error; err != nil {
		return fmt.Errorf("failed to add ingredients: %w", err)
	}
	return nil
}

// ListIngredients returns the ingredients of a recipe in insertion order.
func (r *GORMRecipeRepository) ListIngredients(ctx context.Context, recipeID uint) ([]models.Ingredient, error) {
	ingredients := []models.Ingredient{}
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("id ASC").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients of recipe %d: %w", recipeID, err)
	}
	return ingredients, nil
}

// AddSteps inserts the batch with a single statement.
func (r *GORMRecipeRepository) AddSteps(ctx context.Context, steps []models.Step) error {
	if err := r.db.WithContext(ctx).Create(&steps).Error; err != nil {
		return fmt.Errorf("failed to add steps: %w", err)
	}
	return nil
}

// ListSteps returns the steps of a recipe ordered by step number.
func (r *GORMRecipeRepository) ListSteps(ctx context.Context, recipeID uint) ([]models.Step, error) {
	steps := []models.Step{}
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("step_number ASC").Order("id ASC").Find(&steps).Error; err != nil {
		return nil, fmt.Errorf("failed to list steps of recipe %d: %w", recipeID, err)
	}
	return steps, nil
}
