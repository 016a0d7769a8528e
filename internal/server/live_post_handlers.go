package server

import (
	"time"

	"dailyverse/internal/featureflags"
	"dailyverse/internal/middleware"
	"dailyverse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateLivePostRequest is the body of POST /api/live-posts.
type CreateLivePostRequest struct {
	Text string `json:"text"`
}

// CreateLivePost handles POST /api/live-posts
// @Summary Publish a live post
// @Description Create a short-lived post. Each user may post once per cooldown window.
// @Tags live-posts
// @Accept json
// @Produce json
// @Param request body CreateLivePostRequest true "Post text"
// @Success 201 {object} object{postId=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /live-posts [post]
func (s *Server) CreateLivePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	uid := middleware.UserID(c)

	if !s.featureFlags.Enabled(ctx, featureflags.FlagLivePosts, uid) {
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{
			Error: "Live posts are not available",
			Code:  "FEATURE_DISABLED",
		})
	}

	var req CreateLivePostRequest
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	post, err := s.livePostService.CreateLivePost(ctx, uid, req.Text)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"postId": post.ID})
}

// GetLivePost handles GET /api/live-posts/:id
// @Summary Get a live post
// @Tags live-posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.LivePost
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /live-posts/{id} [get]
func (s *Server) GetLivePost(c *fiber.Ctx) error {
	post, err := s.livePostService.GetLivePost(c.UserContext(), pathParam(c, "id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// ExpireLivePosts handles POST /api/admin/live-posts/expire
// @Summary End expired live posts
// @Description Ends one batch of active posts whose end time has passed.
// @Tags admin
// @Produce json
// @Param X-Admin-Key header string true "Admin key"
// @Success 200 {object} object{expired=int}
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/live-posts/expire [post]
func (s *Server) ExpireLivePosts(c *fiber.Ctx) error {
	count, err := s.livePostService.ExpireLivePosts(c.UserContext(), time.Now().UTC())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"expired": count})
}
