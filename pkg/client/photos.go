package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"recipeshare/internal/models"
)

// PhotoFile is one image to upload.
type PhotoFile struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadPhotos attaches images to a recipe in a single multipart request.
func (c *Client) UploadPhotos(ctx context.Context, recipeID uint, files []PhotoFile) ([]models.Photo, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, quoteEscaper.Replace(f.Filename)))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create form part for %s: %w", f.Filename, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var photos []models.Photo
	path := fmt.Sprintf("/api/recipes/%d/photos", recipeID)
	if err := c.do(ctx, http.MethodPost, path, w.FormDataContentType(), &buf, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// Photos lists a recipe's photos.
func (c *Client) Photos(ctx context.Context, recipeID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/recipes/%d/photos", recipeID), nil, &photos)
	return photos, err
}

// DeletePhoto removes a photo record.
func (c *Client) DeletePhoto(ctx context.Context, photoID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/recipes/photos/%d", photoID), nil, nil)
}
