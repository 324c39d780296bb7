package client

import (
	"context"
	"fmt"
	"net/http"

	"recipeshare/internal/models"
)

type authResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*models.PublicUser, error) {
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	if err := c.session.Save(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates an account and signs in as it.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.PublicUser, error) {
	return c.authenticate(ctx, "/api/users/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

// Login signs in and stores the token in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.PublicUser, error) {
	return c.authenticate(ctx, "/api/users/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Logout forgets the session. Tokens are stateless, so the server is not called.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*models.PublicUser, error) {
	var user models.PublicUser
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserUpdate changes the fields that are set.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UpdateUser edits the signed-in user's account.
func (c *Client) UpdateUser(ctx context.Context, id uint, update UserUpdate) (*models.PublicUser, error) {
	var user models.PublicUser
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the signed-in user's account and everything it owns.
func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil); err != nil {
		return err
	}
	return c.session.Clear()
}
