// Package testutil holds helpers shared by the database-backed tests.
package testutil

import (
	"fmt"
	"testing"

	"recipeshare/internal/database"
	"recipeshare/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to the calling test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser inserts a user with a bcrypt hash of password.
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{Name: name, Email: email, Password: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

// CreateRecipe inserts a recipe owned by ownerID.
func CreateRecipe(t *testing.T, db *gorm.DB, ownerID uint, title, description string) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{Title: title, Description: description, UserID: ownerID}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("Failed to create recipe %s: %v", title, err)
	}
	return recipe
}

// Like records a like from userID on recipeID.
func Like(t *testing.T, db *gorm.DB, recipeID, userID uint) {
	t.Helper()

	if err := db.Create(&models.Like{RecipeID: recipeID, UserID: userID}).Error; err != nil {
		t.Fatalf("Failed to like recipe %d as user %d: %v", recipeID, userID, err)
	}
}
