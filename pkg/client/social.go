package client

import (
	"context"
	"fmt"
	"net/http"

	"recipeshare/internal/models"
)

// AddComment comments on a recipe as the signed-in user.
func (c *Client) AddComment(ctx context.Context, recipeID uint, text string) (*models.CommentView, error) {
	var comment models.CommentView
	path := fmt.Sprintf("/api/recipes/%d/comments", recipeID)
	if err := c.doJSON(ctx, http.MethodPost, path, map[string]string{"text": text}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Comments lists a recipe's comments, newest first.
func (c *Client) Comments(ctx context.Context, recipeID uint) ([]models.CommentView, error) {
	var comments []models.CommentView
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/recipes/%d/comments", recipeID), nil, &comments)
	return comments, err
}

// Like likes a recipe. Liking twice is a 409 APIError.
func (c *Client) Like(ctx context.Context, recipeID uint) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/recipes/%d/like", recipeID), nil, nil)
}

// Unlike removes the signed-in user's like.
func (c *Client) Unlike(ctx context.Context, recipeID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/recipes/%d/like", recipeID), nil, nil)
}

// LikeCount returns how many users liked a recipe.
func (c *Client) LikeCount(ctx context.Context, recipeID uint) (int64, error) {
	var resp struct {
		LikeCount int64 `json:"likeCount"`
	}
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/recipes/%d/like-count", recipeID), nil, &resp)
	return resp.LikeCount, err
}

// LikeStatus reports whether the signed-in user liked a recipe.
func (c *Client) LikeStatus(ctx context.Context, recipeID uint) (bool, error) {
	var resp struct {
		IsLiked bool `json:"isLiked"`
	}
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/recipes/%d/like-status", recipeID), nil, &resp)
	return resp.IsLiked, err
}
