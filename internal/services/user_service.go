package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipeshare/internal/models"
	"recipeshare/internal/repositories"
)

const userNotAuthorized = "User not found or not authorized"

// UserUpdate is a partial change to an account; nil fields are left as they are.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService manages existing accounts.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// Update changes the caller's own account.
func (s *UserService) Update(ctx context.Context, id, callerID uint, update UserUpdate) (*models.User, error) {
	if id != callerID {
		return nil, notFound(userNotAuthorized)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(userNotAuthorized)
		}
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, validationError("Name cannot be empty")
		}
		user.Name = name
	}
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if email == "" {
			return nil, validationError("Email cannot be empty")
		}
		user.Email = email
	}
	if update.Password != nil {
		if *update.Password == "" {
			return nil, validationError("Password cannot be empty")
		}
		hashed, err := hashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, conflict("Email already registered")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound(userNotAuthorized)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes the caller's own account along with everything they created.
func (s *UserService) Delete(ctx context.Context, id, callerID uint) error {
	if id != callerID {
		return notFound(userNotAuthorized)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(userNotAuthorized)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
