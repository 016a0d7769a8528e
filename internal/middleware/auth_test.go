package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dailyverse/internal/identity"
	"dailyverse/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recorderStub struct {
	remembered []string
}

func (r *recorderStub) Remember(_ context.Context, id *identity.Identity) error {
	r.remembered = append(r.remembered, id.UID)
	return nil
}

func TestAuthRequired(t *testing.T) {
	secret := "test-secret-key-12345678901234567890123456789012"
	verifier := identity.NewJWTVerifier(secret, "dailyverse-auth", "dailyverse-app")
	recorder := &recorderStub{}

	app := fiber.New()
	app.Get("/test", AuthRequired(verifier, recorder), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"userID": UserID(c)})
	})

	generateToken := func(uid string, exp time.Duration) string {
		s, err := verifier.Issue(identity.Identity{UID: uid, DisplayName: "Ruth"}, exp)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID string
	}{
		{
			name:           "Happy Path",
			authHeader:     "Bearer " + generateToken("uid-123", time.Hour),
			expectedStatus: http.StatusOK,
			expectedUserID: "uid-123",
		},
		{
			name:           "Lowercase scheme",
			authHeader:     "bearer " + generateToken("uid-123", time.Hour),
			expectedStatus: http.StatusOK,
			expectedUserID: "uid-123",
		},
		{
			name:           "Missing Header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Format",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed Token",
			authHeader:     "Bearer malformed.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + generateToken("uid-123", -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedUserID, body["userID"])
			} else {
				assert.Equal(t, "UNAUTHORIZED", body["code"])
			}
		})
	}

	assert.Equal(t, []string{"uid-123", "uid-123"}, recorder.remembered)
}

// MockVerifier is a mock of the identity.Verifier interface
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

// MockRecorder is a mock of the ProfileRecorder interface
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Remember(ctx context.Context, id *identity.Identity) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAuthRequired_RecorderFailureDoesNotBlock(t *testing.T) {
	verifier := new(MockVerifier)
	recorder := new(MockRecorder)

	verifier.On("Verify", mock.Anything, "good").Return(&identity.Identity{UID: "uid-9"}, nil)
	verifier.On("Verify", mock.Anything, "expired").Return(nil, models.NewUnauthorizedError("Token has expired"))
	recorder.On("Remember", mock.Anything, mock.MatchedBy(func(id *identity.Identity) bool {
		return id.UID == "uid-9"
	})).Return(assert.AnError)

	app := fiber.New()
	app.Get("/test", AuthRequired(verifier, recorder), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer expired")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Token has expired", body.Error)

	verifier.AssertExpectations(t)
	recorder.AssertNumberOfCalls(t, "Remember", 1)
}
