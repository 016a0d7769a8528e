package server

import (
	"crypto/subtle"
	"strings"

	"dailyverse/internal/middleware"
	"dailyverse/internal/models"

	"github.com/gofiber/fiber/v2"
)

const adminKeyHeader = "X-Admin-Key"

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	defaultPaginationLimit = 20
	maxPaginationLimit     = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseBody decodes the JSON request body into dest. A malformed body is a
// validation error.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// pathParam returns the trimmed route parameter.
func pathParam(c *fiber.Ctx, name string) string {
	return strings.TrimSpace(c.Params(name))
}

// AdminKeyRequired guards maintenance routes with the shared admin key. The
// routes answer 404 when no key is configured.
func (s *Server) AdminKeyRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := s.config.AdminAPIKey
		if expected == "" {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Not found",
				Code:  models.CodeNotFound,
			})
		}

		provided := c.Get(adminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			middleware.Logger.WarnContext(c.UserContext(), "Rejected admin request", "path", c.Path(), "ip", c.IP())
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid admin key"))
		}
		return c.Next()
	}
}
