package services

import (
	"context"
	"errors"
	"fmt"

	"recipeshare/internal/models"
	"recipeshare/internal/repositories"
)

// SocialService handles likes and comments.
type SocialService struct {
	recipeRepo repositories.RecipeRepository
	socialRepo repositories.SocialRepository
	events     EventPublisher
}

// NewSocialService creates a new SocialService. events may be nil.
func NewSocialService(recipeRepo repositories.RecipeRepository, socialRepo repositories.SocialRepository, events EventPublisher) *SocialService {
	return &SocialService{
		recipeRepo: recipeRepo,
		socialRepo: socialRepo,
		events:     events,
	}
}

func (s *SocialService) requireRecipe(ctx context.Context, id uint) error {
	ok, err := s.recipeRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("Recipe not found")
	}
	return nil
}

// AddLike records that userID likes recipeID. A second like is a conflict.
func (s *SocialService) AddLike(ctx context.Context, recipeID, userID uint) error {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return err
	}
	if err := s.socialRepo.AddLike(ctx, &models.Like{RecipeID: recipeID, UserID: userID}); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return conflict("You have already liked this recipe")
		}
		return fmt.Errorf("failed to add like: %w", err)
	}

	publish(s.events, EventLikeAdded, map[string]interface{}{"recipe_id": recipeID, "user_id": userID})
	return nil
}

// RemoveLike withdraws a like.
func (s *SocialService) RemoveLike(ctx context.Context, recipeID, userID uint) error {
	if err := s.socialRepo.RemoveLike(ctx, recipeID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Like not found")
		}
		return fmt.Errorf("failed to remove like: %w", err)
	}

	publish(s.events, EventLikeRemoved, map[string]interface{}{"recipe_id": recipeID, "user_id": userID})
	return nil
}

// LikeCount returns the number of likes of a recipe.
func (s *SocialService) LikeCount(ctx context.Context, recipeID uint) (int64, error) {
	return s.socialRepo.CountLikes(ctx, recipeID)
}

// LikeStatus reports whether userID likes recipeID.
func (s *SocialService) LikeStatus(ctx context.Context, recipeID, userID uint) (bool, error) {
	return s.socialRepo.HasLiked(ctx, recipeID, userID)
}

// AddComment appends a comment and returns it with the author's name.
func (s *SocialService) AddComment(ctx context.Context, recipeID, userID uint, text string) (*models.CommentView, error) {
	if blank(text) {
		return nil, validationError("Comment text is required")
	}
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	view, err := s.socialRepo.AddComment(ctx, &models.Comment{RecipeID: recipeID, UserID: userID, Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	publish(s.events, EventCommentAdded, map[string]interface{}{
		"recipe_id":  recipeID,
		"user_id":    userID,
		"comment_id": view.ID,
	})
	return view, nil
}

// ListComments returns the comments of a recipe, newest first.
func (s *SocialService) ListComments(ctx context.Context, recipeID uint) ([]models.CommentView, error) {
	return s.socialRepo.ListComments(ctx, recipeID)
}
