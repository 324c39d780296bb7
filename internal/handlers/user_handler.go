package handlers

import (
	"fmt"

	"recipeshare/internal/models"
	"recipeshare/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the account endpoints.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the account routes. Every one of them requires auth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", auth, h.HandleMe)
	userRoutes.Get("/", auth, h.HandleList)
	userRoutes.Get("/:id", auth, h.HandleGet)
	userRoutes.Put("/:id", auth, h.HandleUpdate)
	userRoutes.Delete("/:id", auth, h.HandleDelete)
}

func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	callerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	user, err := h.userService.Get(c.UserContext(), callerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user.Public())
}

func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return c.JSON(out)
}

func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	user, err := h.userService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user.Public())
}

// UpdateUserRequest is a partial update; omitted fields are unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=1"`
}

func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	callerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req UpdateUserRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.userService.Update(c.UserContext(), id, callerID, services.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user.Public())
}

func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	callerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	if err := h.userService.Delete(c.UserContext(), id, callerID); err != nil {
		return respondError(c, err)
	}
	return message(c, fiber.StatusOK, fmt.Sprintf("User with id %d deleted", id))
}
