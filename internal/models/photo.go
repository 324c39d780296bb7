package models

import "time"

// Photo references an uploaded image served from /uploads.
type Photo struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;index"`
	PhotoURL  string    `json:"photo_url" gorm:"type:varchar(512);not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the table name used by the original schema.
func (Photo) TableName() string {
	return "recipe_photos"
}
