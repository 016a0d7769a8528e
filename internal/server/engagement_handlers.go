package server

import (
	"context"

	"dailyverse/internal/middleware"
	"dailyverse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetEngagement handles GET /api/engagement
// @Summary Get the caller's engagement stats
// @Tags engagement
// @Produce json
// @Success 200 {object} models.EngagementStats
// @Security BearerAuth
// @Router /engagement [get]
func (s *Server) GetEngagement(c *fiber.Ctx) error {
	stats, err := s.engagementService.GetStats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(stats)
}

// MarkActiveToday handles POST /api/engagement/active
// @Summary Record today's activity
// @Tags engagement
// @Produce json
// @Success 200 {object} models.StreakSummary
// @Security BearerAuth
// @Router /engagement/active [post]
func (s *Server) MarkActiveToday(c *fiber.Ctx) error {
	summary, err := s.engagementService.MarkActiveToday(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(summary)
}

// CompleteAllMissions handles POST /api/engagement/missions/complete
// @Summary Record completion of today's missions
// @Tags engagement
// @Produce json
// @Success 200 {object} models.StreakSummary
// @Security BearerAuth
// @Router /engagement/missions/complete [post]
func (s *Server) CompleteAllMissions(c *fiber.Ctx) error {
	summary, err := s.engagementService.CompleteAllMissions(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(summary)
}

// IncrementVerseRead handles POST /api/engagement/verses
// @Summary Count a verse read
// @Tags engagement
// @Produce json
// @Success 200 {object} object{ok=bool}
// @Security BearerAuth
// @Router /engagement/verses [post]
func (s *Server) IncrementVerseRead(c *fiber.Ctx) error {
	return s.increment(c, s.engagementService.IncrementVerseRead)
}

// IncrementPrayerCompleted handles POST /api/engagement/prayers
// @Summary Count a completed prayer
// @Tags engagement
// @Produce json
// @Success 200 {object} object{ok=bool}
// @Security BearerAuth
// @Router /engagement/prayers [post]
func (s *Server) IncrementPrayerCompleted(c *fiber.Ctx) error {
	return s.increment(c, s.engagementService.IncrementPrayerCompleted)
}

// IncrementPostCreated handles POST /api/engagement/posts
// @Summary Count a created post
// @Tags engagement
// @Produce json
// @Success 200 {object} object{ok=bool}
// @Security BearerAuth
// @Router /engagement/posts [post]
func (s *Server) IncrementPostCreated(c *fiber.Ctx) error {
	return s.increment(c, s.engagementService.IncrementPostCreated)
}

func (s *Server) increment(c *fiber.Ctx, fn func(ctx context.Context, uid string) error) error {
	if err := fn(c.UserContext(), middleware.UserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
