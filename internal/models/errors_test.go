package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), fiber.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("who"), fiber.StatusUnauthorized},
		{"conflict", NewConflictError("username taken"), fiber.StatusConflict},
		{"rate limited", NewRateLimitError(30 * time.Second), fiber.StatusTooManyRequests},
		{"not found", NewNotFoundError("User", "u1"), fiber.StatusNotFound},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"wrapped", fmt.Errorf("claim: %w", NewConflictError("username taken")), fiber.StatusConflict},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestNewRateLimitError_RoundsUp(t *testing.T) {
	err := NewRateLimitError(30500 * time.Millisecond)
	assert.Equal(t, "wait 31 seconds", err.Message)
	assert.Equal(t, 31*time.Second, err.RetryAfter)

	err = NewRateLimitError(0)
	assert.Equal(t, time.Second, err.RetryAfter)
}

func TestRespondWithAppError(t *testing.T) {
	app := fiber.New()
	app.Get("/limited", func(c *fiber.Ctx) error {
		return RespondWithAppError(c, NewRateLimitError(12*time.Second))
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return RespondWithAppError(c, NewInternalError(errors.New("password=hunter2")))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/limited", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "12", resp.Header.Get(fiber.HeaderRetryAfter))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Error: "wait 12 seconds", Code: CodeRateLimited, RetryAfter: 12}, body)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/internal", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(raw), "hunter2")
}
