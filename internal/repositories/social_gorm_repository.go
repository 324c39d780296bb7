package repositories

import (
	"context"
	"fmt"

	"recipeshare/internal/models"

	"gorm.io/gorm"
)

// GORMSocialRepository is a GORM implementation of SocialRepository.
type GORMSocialRepository struct {
	db *gorm.DB
}

// NewGORMSocialRepository creates a new instance of GORMSocialRepository.
func NewGORMSocialRepository(db *gorm.DB) *GORMSocialRepository {
	return &GORMSocialRepository{
		db: db,
	}
}

func (r *GORMSocialRepository) AddLike(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return translate(err, "failed to like recipe %d as user %d", like.RecipeID, like.UserID)
	}
	return nil
}

func (r *GORMSocialRepository) RemoveLike(ctx context.Context, recipeID, userID uint) error {
	res := r.db.WithContext(ctx).Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove like on recipe %d: %w", recipeID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("like on recipe %d by user %d: %w", recipeID, userID, ErrNotFound)
	}
	return nil
}

func (r *GORMSocialRepository) CountLikes(ctx context.Context, recipeID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes of recipe %d: %w", recipeID, err)
	}
	return count, nil
}

func (r *GORMSocialRepository) HasLiked(ctx context.Context, recipeID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like on recipe %d: %w", recipeID, err)
	}
	return count > 0, nil
}

// commentViews selects comments with the author's name, newest first.
// Comments whose author is gone are attributed to "Anonymous".
func (r *GORMSocialRepository) commentViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments AS c").
		Select("c.id, c.recipe_id, c.user_id, c.text, c.created_at, COALESCE(u.name, 'Anonymous') AS author").
		Joins("LEFT JOIN users u ON u.id = c.user_id").
		Order("c.created_at DESC").
		Order("c.id DESC")
}

// AddComment stores the comment and returns it with its author resolved.
func (r *GORMSocialRepository) AddComment(ctx context.Context, comment *models.Comment) (*models.CommentView, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to add comment to recipe %d: %w", comment.RecipeID, err)
	}

	var views []models.CommentView
	if err := r.commentViews(ctx).Where("c.id = ?", comment.ID).Limit(1).Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("failed to load comment %d: %w", comment.ID, err)
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("comment %d: %w", comment.ID, ErrNotFound)
	}
	return &views[0], nil
}

func (r *GORMSocialRepository) ListComments(ctx context.Context, recipeID uint) ([]models.CommentView, error) {
	comments := []models.CommentView{}
	if err := r.commentViews(ctx).Where("c.recipe_id = ?", recipeID).Scan(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments of recipe %d: %w", recipeID, err)
	}
	return comments, nil
}
