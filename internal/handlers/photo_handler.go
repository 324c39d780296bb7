package handlers

import (
	"log"
	"mime/multipart"

	"recipeshare/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PhotoFormField is the multipart field carrying uploaded photos.
const PhotoFormField = "photo"

// PhotoHandler serves recipe photo uploads.
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// RegisterRoutes registers the photo routes.
func (h *PhotoHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Post("/:recipeId/photos", auth, h.HandleUpload)
	recipeRoutes.Get("/:recipeId/photos", h.HandleList)
	recipeRoutes.Delete("/photos/:photoId", auth, h.HandleDelete)
}

func (h *PhotoHandler) HandleUpload(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}

	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		headers = form.File[PhotoFormField]
	}

	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			log.Printf("Error opening upload %s: %v", fh.Filename, err)
			return message(c, fiber.StatusBadRequest, "Could not read uploaded file")
		}
		defer f.Close()
		uploads = append(uploads, services.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Content:     f,
		})
	}

	photos, err := h.photoService.AddPhotos(c.UserContext(), recipeID, uploads)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(photos)
}

func (h *PhotoHandler) HandleList(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	photos, err := h.photoService.ListPhotos(c.UserContext(), recipeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(photos)
}

func (h *PhotoHandler) HandleDelete(c *fiber.Ctx) error {
	photoID, ok, err := paramID(c, "photoId")
	if !ok {
		return err
	}
	if err := h.photoService.DeletePhoto(c.UserContext(), photoID); err != nil {
		return respondError(c, err)
	}
	return message(c, fiber.StatusOK, "Photo deleted successfully")
}
