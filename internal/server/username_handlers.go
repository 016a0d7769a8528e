package server

import (
	"dailyverse/internal/middleware"
	"dailyverse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClaimUsernameRequest is the body of PUT /api/me/username.
type ClaimUsernameRequest struct {
	Username string `json:"username"`
}

// ClaimUsername handles PUT /api/me/username
// @Summary Claim a username
// @Description Reserve a unique username for the caller and release the previous one
// @Tags users
// @Accept json
// @Produce json
// @Param request body ClaimUsernameRequest true "Requested username"
// @Success 200 {object} object{username=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /me/username [put]
func (s *Server) ClaimUsername(c *fiber.Ctx) error {
	var req ClaimUsernameRequest
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	result, err := s.usernameService.ClaimUsername(c.UserContext(), middleware.UserID(c), req.Username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"username": result.Username})
}
