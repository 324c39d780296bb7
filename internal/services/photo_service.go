package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"recipeshare/internal/models"
	"recipeshare/internal/repositories"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// allowedImageTypes lists the accepted upload types, both as declared by the
// client and as sniffed from the content.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

const invalidImageType = "Invalid file type. Only JPEG, PNG, GIF and WEBP images are allowed"

// Upload is one file of a multipart photo upload.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// PhotoService stores uploaded recipe photos on disk and records them.
type PhotoService struct {
	recipeRepo repositories.RecipeRepository
	photoRepo  repositories.PhotoRepository
	uploadDir  string
	maxBytes   int64
	events     EventPublisher
}

// NewPhotoService creates a new PhotoService writing to uploadDir. events may be nil.
func NewPhotoService(recipeRepo repositories.RecipeRepository, photoRepo repositories.PhotoRepository, uploadDir string, maxBytes int64, events EventPublisher) *PhotoService {
	return &PhotoService{
		recipeRepo: recipeRepo,
		photoRepo:  photoRepo,
		uploadDir:  uploadDir,
		maxBytes:   maxBytes,
		events:     events,
	}
}

type stagedFile struct {
	data []byte
	ext  string
}

func (s *PhotoService) tooLarge() error {
	return validationError(fmt.Sprintf("File too large. Maximum size is %dMB", s.maxBytes/(1024*1024)))
}

// stage reads and checks one upload without touching the disk.
func (s *PhotoService) stage(u Upload) (stagedFile, error) {
	declared, _, err := mime.ParseMediaType(u.ContentType)
	if err != nil || !allowedImageTypes[strings.ToLower(declared)] {
		return stagedFile{}, validationError(invalidImageType)
	}
	if u.Size > s.maxBytes {
		return stagedFile{}, s.tooLarge()
	}

	data, err := io.ReadAll(io.LimitReader(u.Content, s.maxBytes+1))
	if err != nil {
		return stagedFile{}, fmt.Errorf("failed to read upload %s: %w", u.Filename, err)
	}
	if int64(len(data)) > s.maxBytes {
		return stagedFile{}, s.tooLarge()
	}

	detected := mimetype.Detect(data)
	if !allowedImageTypes[detected.String()] {
		return stagedFile{}, validationError(invalidImageType)
	}
	return stagedFile{data: data, ext: detected.Extension()}, nil
}

func removeFiles(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			log.Printf("Failed to remove upload %s: %v", p, err)
		}
	}
}

// AddPhotos validates every upload, writes them under uploadDir and records
// them against the recipe. Either all photos are stored or none.
func (s *PhotoService) AddPhotos(ctx context.Context, recipeID uint, uploads []Upload) ([]models.Photo, error) {
	if len(uploads) == 0 {
		return nil, validationError("No files uploaded")
	}
	ok, err := s.recipeRepo.Exists(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("Recipe not found")
	}

	staged := make([]stagedFile, 0, len(uploads))
	for _, u := range uploads {
		f, err := s.stage(u)
		if err != nil {
			return nil, err
		}
		staged = append(staged, f)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	written := make([]string, 0, len(staged))
	photos := make([]models.Photo, 0, len(staged))
	for _, f := range staged {
		name := uuid.NewString() + f.ext
		path := filepath.Join(s.uploadDir, name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			removeFiles(written)
			return nil, fmt.Errorf("failed to write upload %s: %w", name, err)
		}
		written = append(written, path)
		photos = append(photos, models.Photo{RecipeID: recipeID, PhotoURL: "/uploads/" + name})
	}

	if err := s.photoRepo.Create(ctx, photos); err != nil {
		removeFiles(written)
		return nil, fmt.Errorf("failed to record photos: %w", err)
	}

	for _, p := range photos {
		publish(s.events, EventPhotoAdded, map[string]interface{}{
			"recipe_id": recipeID,
			"photo_id":  p.ID,
			"photo_url": p.PhotoURL,
		})
	}
	return photos, nil
}

// ListPhotos returns the photos of a recipe.
func (s *PhotoService) ListPhotos(ctx context.Context, recipeID uint) ([]models.Photo, error) {
	return s.photoRepo.ListByRecipe(ctx, recipeID)
}

// DeletePhoto removes a photo record. The file stays in uploadDir.
func (s *PhotoService) DeletePhoto(ctx context.Context, photoID uint) error {
	if err := s.photoRepo.Delete(ctx, photoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Photo not found")
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
