package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"recipeshare/internal/handlers"
	"recipeshare/internal/middleware"
	"recipeshare/internal/models"
	"recipeshare/internal/repositories"
	"recipeshare/internal/services"
	"recipeshare/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test_jwt_secret"

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	uploadDir string
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	uploadDir := t.TempDir()

	userRepo := repositories.NewGORMUserRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	socialRepo := repositories.NewGORMSocialRepository(db)
	photoRepo := repositories.NewGORMPhotoRepository(db)

	authService := services.NewAuthService(userRepo, testJWTSecret, time.Hour)
	userService := services.NewUserService(userRepo)
	recipeService := services.NewRecipeService(recipeRepo, nil)
	searchService := services.NewSearchService(recipeRepo)
	socialService := services.NewSocialService(recipeRepo, socialRepo, nil)
	photoService := services.NewPhotoService(recipeRepo, photoRepo, uploadDir, 1024*1024, nil)

	app := fiber.New()
	api := app.Group("/api")
	requireAuth := middleware.AuthRequired(authService)

	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewUserHandler(userService).RegisterRoutes(api, requireAuth)
	handlers.NewRecipeHandler(recipeService, searchService).RegisterRoutes(api, requireAuth)
	handlers.NewSocialHandler(socialService).RegisterRoutes(api, requireAuth)
	handlers.NewPhotoHandler(photoService).RegisterRoutes(api, requireAuth)

	return &testEnv{app: app, db: db, uploadDir: uploadDir}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// call sends a JSON request and decodes the JSON response into out, if given.
func (e *testEnv) call(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type authResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type messageResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (e *testEnv) register(t *testing.T, name, email string) authResponse {
	t.Helper()
	var out authResponse
	status := e.call(t, http.MethodPost, "/api/users/register", "",
		map[string]string{"name": name, "email": email, "password": "password123"}, &out)
	require.Equal(t, http.StatusCreated, status)
	return out
}

func (e *testEnv) createRecipe(t *testing.T, token, title, description string) models.Recipe {
	t.Helper()
	var out models.Recipe
	status := e.call(t, http.MethodPost, "/api/recipes", token,
		map[string]string{"title": title, "description": description}, &out)
	require.Equal(t, http.StatusCreated, status)
	return out
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := setupApp(t)

	registered := env.register(t, "Test User", "test@example.com")
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "Test User", registered.User.Name)

	// Test Duplicate Registration (email)
	var dup messageResponse
	status := env.call(t, http.MethodPost, "/api/users/register", "",
		map[string]string{"name": "Other", "email": "test@example.com", "password": "x"}, &dup)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", dup.Message)

	// Test invalid registration body
	var invalid messageResponse
	status = env.call(t, http.MethodPost, "/api/users/register", "", map[string]string{"email": "not-an-email"}, &invalid)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", invalid.Message)
	assert.Contains(t, invalid.Errors, "Name")

	// Test Login
	var raw map[string]interface{}
	status = env.call(t, http.MethodPost, "/api/users/login", "",
		map[string]string{"email": "test@example.com", "password": "password123"}, &raw)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, raw["token"])
	user := raw["user"].(map[string]interface{})
	assert.Equal(t, "test@example.com", user["email"])
	assert.NotContains(t, user, "password")

	// Test Login with wrong password and unknown email
	for _, creds := range []map[string]string{
		{"email": "test@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "password123"},
	} {
		var failed messageResponse
		status = env.call(t, http.MethodPost, "/api/users/login", "", creds, &failed)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid email or password", failed.Message)
	}

	// Current user from the token
	var me models.PublicUser
	status = env.call(t, http.MethodGet, "/api/users/me", registered.Token, nil, &me)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, registered.User.ID, me.ID)

	status = env.call(t, http.MethodGet, "/api/users/me", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRecipeLifecycle(t *testing.T) {
	env := setupApp(t)
	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	status := env.call(t, http.MethodPost, "/api/recipes", "", map[string]string{"title": "Soup", "description": "Hot"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = env.call(t, http.MethodPost, "/api/recipes", alice.Token, map[string]string{"title": "Soup"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	soup := env.createRecipe(t, alice.Token, "Soup", "Very **hot**")
	assert.Equal(t, alice.User.ID, soup.UserID)

	var detail models.RecipeDetail
	status = env.call(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", soup.ID), "", nil, &detail)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice", detail.Author)
	assert.Equal(t, int64(0), detail.LikeCount)
	assert.Contains(t, detail.DescriptionHTML, "<strong>hot</strong>")

	status = env.call(t, http.MethodGet, "/api/recipes/abc", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status = env.call(t, http.MethodGet, "/api/recipes/999", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	update := map[string]interface{}{
		"title":       "Tomato Soup",
		"description": "Hot and red",
		"ingredients": []map[string]interface{}{{"name": "Tomato", "quantity": "4"}},
		"steps":       []map[string]interface{}{{"step_number": 1, "description": "Boil"}},
	}

	var refused messageResponse
	status = env.call(t, http.MethodPut, fmt.Sprintf("/api/recipes/%d", soup.ID), bob.Token, update, &refused)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Recipe not found or not authorized", refused.Message)

	status = env.call(t, http.MethodPut, fmt.Sprintf("/api/recipes/%d", soup.ID), alice.Token, update, nil)
	assert.Equal(t, http.StatusOK, status)

	var ingredients []models.Ingredient
	status = env.call(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/ingredients", soup.ID), "", nil, &ingredients)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Tomato", ingredients[0].Name)

	var mine []models.RecipeSummary
	status = env.call(t, http.MethodGet, fmt.Sprintf("/api/recipes/user/%d", alice.User.ID), "", nil, &mine)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, mine, 1)
	assert.Equal(t, "Tomato Soup", mine[0].Title)

	status = env.call(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d", soup.ID), bob.Token, nil, &refused)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Recipe not found or not authorized", refused.Message)

	status = env.call(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d", soup.ID), alice.Token, nil, nil)
	assert.Equal(t, http.StatusOK, status)
	status = env.call(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", soup.ID), "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var all []models.RecipeSummary
	status = env.call(t, http.MethodGet, "/api/recipes", "", nil, &all)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, all)
}

func TestIngredientsAndSteps(t *testing.T) {
	env := setupApp(t)
	alice := env.register(t, "Alice", "alice@example.com")
	soup := env.createRecipe(t, alice.Token, "Soup", "Hot")
	base := fmt.Sprintf("/api/recipes/%d", soup.ID)

	var added []models.Ingredient
	status := env.call(t, http.MethodPost, base+"/ingredients", alice.Token, map[string]interface{}{
		"ingredients": []map[string]string{{"name": "Water", "quantity": "1 l"}, {"name": "Salt", "quantity": "1 tsp"}},
	}, &added)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, added, 2)
	assert.NotZero(t, added[0].ID)

	status = env.call(t, http.MethodPost, base+"/ingredients", alice.Token, map[string]interface{}{"ingredients": []string{}}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status = env.call(t, http.MethodPost, base+"/ingredients", alice.Token, map[string]interface{}{
		"ingredients": []map[string]string{{"name": "Pepper"}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status = env.call(t, http.MethodPost, "/api/recipes/999/ingredients", alice.Token, map[string]interface{}{
		"ingredients": []map[string]string{{"name": "Water", "quantity": "1 l"}},
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = env.call(t, http.MethodPost, base+"/steps", alice.Token, map[string]interface{}{
		"steps": []map[string]interface{}{{"stepNumber": 2, "description": "Season"}, {"stepNumber": 1, "description": "Boil"}},
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var steps []models.Step
	status = env.call(t, http.MethodGet, base+"/steps", "", nil, &steps)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, steps, 2)
	assert.Equal(t, "Boil", steps[0].Description)
	assert.Equal(t, 2, steps[1].StepNumber)

	// An update naming a step of another recipe changes nothing
	other := env.createRecipe(t, alice.Token, "Cake", "Sweet")
	status = env.call(t, http.MethodPut, fmt.Sprintf("/api/recipes/%d", other.ID), alice.Token, map[string]interface{}{
		"title":       "Changed",
		"description": "Changed",
		"steps":       []map[string]interface{}{{"id": steps[0].ID, "step_number": 1, "description": "Stolen"}},
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var cake models.RecipeDetail
	status = env.call(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", other.ID), "", nil, &cake)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Cake", cake.Title)
}

func TestLikes(t *testing.T) {
	env := setupApp(t)
	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")
	soup := env.createRecipe(t, alice.Token, "Soup", "Hot")
	path := fmt.Sprintf("/api/recipes/%d", soup.ID)

	status := env.call(t, http.MethodPost, path+"/like", bob.Token, nil, nil)
	assert.Equal(t, http.StatusCreated, status)

	var dup messageResponse
	status = env.call(t, http.MethodPost, path+"/like", bob.Token, nil, &dup)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "You have already liked this recipe", dup.Message)

	status = env.call(t, http.MethodPost, "/api/recipes/999/like", bob.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var count map[string]int64
	status = env.call(t, http.MethodGet, path+"/like-count", "", nil, &count)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), count["likeCount"])

	var liked map[string]bool
	status = env.call(t, http.MethodGet, path+"/like-status", bob.Token, nil, &liked)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, liked["isLiked"])
	status = env.call(t, http.MethodGet, path+"/like-status", alice.Token, nil, &liked)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, liked["isLiked"])

	status = env.call(t, http.MethodDelete, path+"/like", bob.Token, nil, nil)
	assert.Equal(t, http.StatusOK, status)
	var missing messageResponse
	status = env.call(t, http.MethodDelete, path+"/like", bob.Token, nil, &missing)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Like not found", missing.Message)
}

func TestComments(t *testing.T) {
	env := setupApp(t)
	alice := env.register(t, "Alice", "alice@example.com")
	soup := env.createRecipe(t, alice.Token, "Soup", "Hot")
	path := fmt.Sprintf("/api/recipes/%d/comments", soup.ID)

	var blank messageResponse
	status := env.call(t, http.MethodPost, path, alice.Token, map[string]string{"text": ""}, &blank)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Comment text is required", blank.Message)

	var comment models.CommentView
	status = env.call(t, http.MethodPost, path, alice.Token, map[string]string{"text": "Lovely"}, &comment)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Alice", comment.Author)
	assert.Equal(t, soup.ID, comment.RecipeID)

	var comments []models.CommentView
	status = env.call(t, http.MethodGet, path, "", nil, &comments)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, comments, 1)
	assert.Equal(t, "Lovely", comments[0].Text)
}

func TestSearch(t *testing.T) {
	env := setupApp(t)
	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")
	tomato := env.createRecipe(t, alice.Token, "Tomato Soup", "Red")
	pumpkin := env.createRecipe(t, alice.Token, "Pumpkin Soup", "Orange")
	env.createRecipe(t, alice.Token, "Cake", "Sweet")
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/like", pumpkin.ID), bob.Token, nil, nil))
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/ingredients", tomato.ID), alice.Token,
		map[string]interface{}{"ingredients": []map[string]string{{"name": "Tomatoes", "quantity": "4"}}}, nil))

	var missing messageResponse
	status := env.call(t, http.MethodGet, "/api/recipes/search", "", nil, &missing)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Search query is required", missing.Message)

	status = env.call(t, http.MethodGet, "/api/recipes/search?query=soup&minRating=lots", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var results []models.RecipeSummary
	status = env.call(t, http.MethodGet, "/api/recipes/search?query=SOUP", "", nil, &results)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, results, 2)
	assert.Equal(t, pumpkin.ID, results[0].ID)

	status = env.call(t, http.MethodGet, "/api/recipes/search?query=soup&minRating=1", "", nil, &results)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, results, 1)
	assert.Equal(t, pumpkin.ID, results[0].ID)

	status = env.call(t, http.MethodGet, "/api/recipes/search?query=soup&ingredient=tomato", "", nil, &results)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, results, 1)
	assert.Equal(t, tomato.ID, results[0].ID)
}

func photoRequest(t *testing.T, path, token string, files map[string][]byte, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, handlers.PhotoFormField, name))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestPhotos(t *testing.T) {
	env := setupApp(t)
	alice := env.register(t, "Alice", "alice@example.com")
	soup := env.createRecipe(t, alice.Token, "Soup", "Hot")
	path := fmt.Sprintf("/api/recipes/%d/photos", soup.ID)
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

	resp, err := env.app.Test(photoRequest(t, path, alice.Token, map[string][]byte{"soup.png": png}, "image/png"), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var photos []models.Photo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&photos))
	resp.Body.Close()
	require.Len(t, photos, 1)
	require.True(t, strings.HasPrefix(photos[0].PhotoURL, "/uploads/"))

	stored, err := os.ReadFile(filepath.Join(env.uploadDir, strings.TrimPrefix(photos[0].PhotoURL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, png, stored)

	resp, err = env.app.Test(photoRequest(t, path, alice.Token, map[string][]byte{"doc.pdf": []byte("%PDF-1.4")}, "application/pdf"), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = env.app.Test(photoRequest(t, path, alice.Token, nil, "image/png"), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var listed []models.Photo
	status := env.call(t, http.MethodGet, path, "", nil, &listed)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, listed, 1)

	status = env.call(t, http.MethodDelete, fmt.Sprintf("/api/recipes/photos/%d", photos[0].ID), alice.Token, nil, nil)
	assert.Equal(t, http.StatusOK, status)
	status = env.call(t, http.MethodDelete, fmt.Sprintf("/api/recipes/photos/%d", photos[0].ID), alice.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUserAccounts(t *testing.T) {
	env := setupApp(t)
	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")
	soup := env.createRecipe(t, alice.Token, "Soup", "Hot")
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/like", soup.ID), bob.Token, nil, nil))

	var users []models.PublicUser
	status := env.call(t, http.MethodGet, "/api/users", alice.Token, nil, &users)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, users, 2)

	var refused messageResponse
	status = env.call(t, http.MethodPut, fmt.Sprintf("/api/users/%d", bob.User.ID), alice.Token, map[string]string{"name": "Hacked"}, &refused)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found or not authorized", refused.Message)

	var updated models.PublicUser
	status = env.call(t, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.User.ID), alice.Token, map[string]string{"name": "Alicia"}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)

	status = env.call(t, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.User.ID), alice.Token, map[string]string{"email": "bob@example.com"}, nil)
	assert.Equal(t, http.StatusConflict, status)

	status = env.call(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", bob.User.ID), alice.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = env.call(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", alice.User.ID), alice.Token, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	status = env.call(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", soup.ID), "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	var likes int64
	require.NoError(t, env.db.Model(&models.Like{}).Count(&likes).Error)
	assert.Zero(t, likes)

	status = env.call(t, http.MethodGet, "/api/users/me", alice.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
