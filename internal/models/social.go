package models

import "time"

// Like records that a user liked a recipe. The unique (recipe_id, user_id) index
// allows at most one like per pair.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_likes_recipe_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_likes_recipe_user;index"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is append-only.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a comment with the author's display name resolved at read time.
type CommentView struct {
	ID        uint      `json:"id"`
	RecipeID  uint      `json:"recipe_id"`
	UserID    uint      `json:"user_id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
