package repositories

import (
	"context"
	"fmt"

	"recipeshare/internal/models"

	"gorm.io/gorm"
)

// PhotoRepository defines the interface for recipe photo rows.
type PhotoRepository interface {
	Create(ctx context.Context, photos []models.Photo) error
	ListByRecipe(ctx context.Context, recipeID uint) ([]models.Photo, error)
	Delete(ctx context.Context, id uint) error
}

// GORMPhotoRepository is a GORM implementation of PhotoRepository.
type GORMPhotoRepository struct {
	db *gorm.DB
}

// NewGORMPhotoRepository creates a new instance of GORMPhotoRepository.
func NewGORMPhotoRepository(db *gorm.DB) *GORMPhotoRepository {
	return &GORMPhotoRepository{
		db: db,
	}
}

// Create inserts all photos with a single statement.
func (r *GORMPhotoRepository) Create(ctx context.Context, photos []models.Photo) error {
	if err := r.db.WithContext(ctx).Create(&photos).Error; err != nil {
		return fmt.Errorf("failed to add photos: %w", err)
	}
	return nil
}

func (r *GORMPhotoRepository) ListByRecipe(ctx context.Context, recipeID uint) ([]models.Photo, error) {
	photos := []models.Photo{}
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("id ASC").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos of recipe %d: %w", recipeID, err)
	}
	return photos, nil
}

// Delete removes the photo row. The file on disk is left alone.
func (r *GORMPhotoRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Photo{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete photo %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("photo with ID %d not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
