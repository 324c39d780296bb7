package models

import "time"

// Recipe is the root of the recipe aggregate. Ingredients and steps are owned rows
// keyed by RecipeID.
type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecipeSummary is a recipe joined with its author's name and its like count.
type RecipeSummary struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      uint      `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	LikeCount   int64     `json:"like_count"`
	Author      string    `json:"author"`
}

// RecipeDetail is returned for a single recipe.
type RecipeDetail struct {
	RecipeSummary
	DescriptionHTML string `json:"description_html"`
}

// Ingredient is a free-text name/quantity pair. Ingredients have no ordering.
type Ingredient struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	RecipeID uint   `json:"recipe_id" gorm:"not null;index"`
	Name     string `json:"name" gorm:"type:varchar(255);not null"`
	Quantity string `json:"quantity" gorm:"type:varchar(100);not null"`
}

// Step is one instruction; StepNumber defines display order.
type Step struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	RecipeID    uint   `json:"recipe_id" gorm:"not null;index"`
	StepNumber  int    `json:"step_number" gorm:"not null"`
	Description string `json:"description" gorm:"type:text;not null"`
}
