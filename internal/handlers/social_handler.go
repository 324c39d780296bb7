package handlers

import (
	"recipeshare/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SocialHandler serves likes and comments on recipes.
type SocialHandler struct {
	socialService *services.SocialService
	validate      *validator.Validate
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(socialService *services.SocialService) *SocialHandler {
	return &SocialHandler{
		socialService: socialService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the like and comment routes.
func (h *SocialHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Post("/:recipeId/comments", auth, h.HandleAddComment)
	recipeRoutes.Get("/:recipeId/comments", h.HandleListComments)

	recipeRoutes.Post("/:recipeId/like", auth, h.HandleAddLike)
	recipeRoutes.Delete("/:recipeId/like", auth, h.HandleRemoveLike)
	recipeRoutes.Get("/:recipeId/like-count", h.HandleLikeCount)
	recipeRoutes.Get("/:recipeId/like-status", auth, h.HandleLikeStatus)
}

// AddCommentRequest represents the request body for a comment. The recipe
// comes from the path.
type AddCommentRequest struct {
	Text string `json:"text"`
}

func (h *SocialHandler) HandleAddComment(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	callerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req AddCommentRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}

	comment, err := h.socialService.AddComment(c.UserContext(), recipeID, callerID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *SocialHandler) HandleListComments(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	comments, err := h.socialService.ListComments(c.UserContext(), recipeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

func (h *SocialHandler) HandleAddLike(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	callerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	if err := h.socialService.AddLike(c.UserContext(), recipeID, callerID); err != nil {
		return respondError(c, err)
	}
	return message(c, fiber.StatusCreated, "Like added successfully")
}

func (h *SocialHandler) HandleRemoveLike(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	callerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	if err := h.socialService.RemoveLike(c.UserContext(), recipeID, callerID); err != nil {
		return respondError(c, err)
	}
	return message(c, fiber.StatusOK, "Like removed successfully")
}

func (h *SocialHandler) HandleLikeCount(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	count, err := h.socialService.LikeCount(c.UserContext(), recipeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"likeCount": count})
}

func (h *SocialHandler) HandleLikeStatus(c *fiber.Ctx) error {
	recipeID, ok, err := paramID(c, "recipeId")
	if !ok {
		return err
	}
	callerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	liked, err := h.socialService.LikeStatus(c.UserContext(), recipeID, callerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"isLiked": liked})
}
