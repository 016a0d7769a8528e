package middleware

import (
	"context"
	"log/slog"
	"strings"

	"dailyverse/internal/identity"
	"dailyverse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ProfileRecorder keeps the verified caller's provider profile for later
// author resolution.
type ProfileRecorder interface {
	Remember(ctx context.Context, id *identity.Identity) error
}

// AuthRequired verifies the bearer token and stores the caller's uid in
// c.Locals("userID") and in the request context. recorder may be nil.
func AuthRequired(verifier identity.Verifier, recorder ProfileRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		id, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		ctx := WithUserID(c.UserContext(), id.UID)
		c.Locals("userID", id.UID)
		c.SetUserContext(ctx)

		if recorder != nil {
			if err := recorder.Remember(ctx, id); err != nil {
				Logger.WarnContext(ctx, "failed to cache caller profile", slog.String("error", err.Error()))
			}
		}

		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the authenticated uid set by AuthRequired.
func UserID(c *fiber.Ctx) string {
	uid, _ := c.Locals("userID").(string)
	return uid
}
