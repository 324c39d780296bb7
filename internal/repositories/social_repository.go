package repositories

import (
	"context"

	"recipeshare/internal/models"
)

// SocialRepository defines the interface for likes and comments.
type SocialRepository interface {
	// AddLike returns ErrDuplicate when the user already liked the recipe.
	AddLike(ctx context.Context, like *models.Like) error
	// RemoveLike returns ErrNotFound when there was no like to remove.
	RemoveLike(ctx context.Context, recipeID, userID uint) error
	CountLikes(ctx context.Context, recipeID uint) (int64, error)
	HasLiked(ctx context.Context, recipeID, userID uint) (bool, error)

	AddComment(ctx context.Context, comment *models.Comment) (*models.CommentView, error)
	ListComments(ctx context.Context, recipeID uint) ([]models.CommentView, error)
}
