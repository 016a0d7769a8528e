package server

import (
	"dailyverse/internal/middleware"
	"dailyverse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/users/:id/follow
// @Summary Follow a user
// @Tags follows
// @Produce json
// @Param id path string true "Target user ID"
// @Success 200 {object} object{ok=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/follow [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	if err := s.followService.Follow(c.UserContext(), middleware.UserID(c), pathParam(c, "id")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Unfollow handles DELETE /api/users/:id/follow
// @Summary Unfollow a user
// @Tags follows
// @Produce json
// @Param id path string true "Target user ID"
// @Success 200 {object} object{ok=bool}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/follow [delete]
func (s *Server) Unfollow(c *fiber.Ctx) error {
	if err := s.followService.Unfollow(c.UserContext(), middleware.UserID(c), pathParam(c, "id")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// GetFollowers handles GET /api/users/:id/followers
// @Summary List followers
// @Tags follows
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.Follower
// @Security BearerAuth
// @Router /users/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	followers, err := s.followService.ListFollowers(c.UserContext(), pathParam(c, "id"), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(followers)
}

// GetFollowing handles GET /api/users/:id/following
// @Summary List followed users
// @Tags follows
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.Following
// @Security BearerAuth
// @Router /users/{id}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	following, err := s.followService.ListFollowing(c.UserContext(), pathParam(c, "id"), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(following)
}
