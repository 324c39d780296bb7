package repositories

import (
	"context"

	"recipeshare/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	// Delete removes the user together with their likes, their comments and
	// every recipe they own, in one transaction.
	Delete(ctx context.Context, id uint) error
}
