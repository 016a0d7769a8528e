package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dailyverse/internal/config"
	"dailyverse/internal/identity"
	"dailyverse/internal/models"
	"dailyverse/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret   = "test-secret-that-is-at-least-32-chars"
	testIssuer   = "dailyverse-auth"
	testAudience = "dailyverse-app"
)

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	mr     *miniredis.Miniredis
	issuer *identity.JWTVerifier
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	rules := config.DefaultRules()
	rules.TxInitialBackoff = time.Millisecond

	cfg := &config.Config{
		Env:            "test",
		Port:           "0",
		JWTSecret:      testSecret,
		JWTIssuer:      testIssuer,
		JWTAudience:    testAudience,
		AllowedOrigins: "http://localhost:5173",
		Rules:          rules,
	}
	for _, fn := range mutate {
		fn(cfg)
	}

	db := testutil.NewSQLiteDB(t)
	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	return &testEnv{
		server: srv,
		app:    srv.App(),
		db:     db,
		mr:     mr,
		issuer: identity.NewJWTVerifier(testSecret, testIssuer, testAudience),
	}
}

func (e *testEnv) token(t *testing.T, id identity.Identity) string {
	t.Helper()
	tok, err := e.issuer.Issue(id, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestLivenessCheck(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestReadinessCheck(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env.mr.Close()
	resp = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"wrong audience", func() string {
			tok, err := identity.NewJWTVerifier(testSecret, testIssuer, "other-app").
				Issue(identity.Identity{UID: "u1"}, time.Hour)
			require.NoError(t, err)
			return tok
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, "/api/engagement", tt.token, nil)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			var body map[string]any
			decode(t, resp, &body)
			assert.Equal(t, "UNAUTHORIZED", body["code"])
		})
	}
}

func TestClaimUsername(t *testing.T) {
	env := newTestEnv(t)
	alice := env.token(t, identity.Identity{UID: "alice"})
	bob := env.token(t, identity.Identity{UID: "bob"})

	resp := env.do(t, http.MethodPut, "/api/me/username", alice, ClaimUsernameRequest{Username: "  Grace_1 "})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "grace_1", body["username"])

	resp = env.do(t, http.MethodPut, "/api/me/username", bob, ClaimUsernameRequest{Username: "grace_1"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/me/username", bob, ClaimUsernameRequest{Username: "ab"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestClaimUsername_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, identity.Identity{UID: "alice"})

	req := httptest.NewRequest(http.MethodPut, "/api/me/username", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRouteRateLimit_UsesConfiguredEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	env := newTestEnv(t, func(cfg *config.Config) { cfg.Env = "staging" })
	tok := env.token(t, identity.Identity{UID: "alice"})

	for i := 0; i < 10; i++ {
		resp := env.do(t, http.MethodPut, "/api/me/username", tok, ClaimUsernameRequest{Username: "psalm_23"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d", i+1)
	}

	resp := env.do(t, http.MethodPut, "/api/me/username", tok, ClaimUsernameRequest{Username: "psalm_23"})
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}

func TestFollowRoutes(t *testing.T) {
	env := newTestEnv(t)
	target := testutil.CreateUser(t, env.db)
	tok := env.token(t, identity.Identity{UID: "caller"})

	resp := env.do(t, http.MethodPost, "/api/users/"+target.ID+"/follow", tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ok map[string]bool
	decode(t, resp, &ok)
	assert.True(t, ok["ok"])

	// Following twice is accepted without a second edge.
	resp = env.do(t, http.MethodPost, "/api/users/"+target.ID+"/follow", tok, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/users/"+target.ID+"/followers?limit=500", tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var followers []map[string]any
	decode(t, resp, &followers)
	require.Len(t, followers, 1)
	assert.Equal(t, "caller", followers[0]["follower_id"])

	resp = env.do(t, http.MethodGet, "/api/users/caller/following", tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var following []map[string]any
	decode(t, resp, &following)
	require.Len(t, following, 1)
	assert.Equal(t, target.ID, following[0]["target_id"])

	resp = env.do(t, http.MethodDelete, "/api/users/"+target.ID+"/follow", tok, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/users/"+target.ID+"/followers", tok, nil)
	decode(t, resp, &followers)
	assert.Empty(t, followers)
}

func TestFollowRoutes_Errors(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, identity.Identity{UID: "caller"})

	resp := env.do(t, http.MethodPost, "/api/users/caller/follow", tok, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/users/ghost/follow", tok, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLivePostRoutes(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, identity.Identity{UID: "ruth", DisplayName: "Ruth of Moab"})

	resp := env.do(t, http.MethodPost, "/api/live-posts", tok, CreateLivePostRequest{Text: "Where you go I will go."})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created map[string]string
	decode(t, resp, &created)
	require.NotEmpty(t, created["postId"])

	resp = env.do(t, http.MethodGet, "/api/live-posts/"+created["postId"], tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var post map[string]any
	decode(t, resp, &post)
	assert.Equal(t, "Ruth of Moab", post["author_name"])
	assert.Equal(t, "active", post["status"])

	resp = env.do(t, http.MethodPost, "/api/live-posts", tok, CreateLivePostRequest{Text: "A second post too soon."})
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
	var limited map[string]any
	decode(t, resp, &limited)
	assert.Equal(t, "RATE_LIMITED", limited["code"])
	assert.Greater(t, limited["retryAfter"], float64(0))

	resp = env.do(t, http.MethodGet, "/api/live-posts/missing", tok, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateLivePost_Validation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, identity.Identity{UID: "ruth"})

	resp := env.do(t, http.MethodPost, "/api/live-posts", tok, CreateLivePostRequest{Text: "too short"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateLivePost_FeatureDisabled(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.FeatureFlags = "live_posts=off" })
	tok := env.token(t, identity.Identity{UID: "ruth"})

	resp := env.do(t, http.MethodPost, "/api/live-posts", tok, CreateLivePostRequest{Text: "Where you go I will go."})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/feature-flags", tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var flags struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}
	decode(t, resp, &flags)
	assert.Equal(t, "off", flags.Raw["live_posts"])
	assert.False(t, flags.Evaluated["live_posts"])
}

func TestEngagementRoutes(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, identity.Identity{UID: "hannah"})

	resp := env.do(t, http.MethodGet, "/api/engagement", tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var empty map[string]any
	decode(t, resp, &empty)
	assert.Equal(t, float64(0), empty["current_streak"])

	resp = env.do(t, http.MethodPost, "/api/engagement/active", tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var summary map[string]any
	decode(t, resp, &summary)
	assert.Equal(t, float64(1), summary["current_streak"])
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), summary["today"])

	resp = env.do(t, http.MethodPost, "/api/engagement/missions/complete", tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, path := range []string{"/api/engagement/verses", "/api/engagement/verses", "/api/engagement/prayers", "/api/engagement/posts"} {
		resp = env.do(t, http.MethodPost, path, tok, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}

	resp = env.do(t, http.MethodGet, "/api/engagement", tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats map[string]any
	decode(t, resp, &stats)
	assert.Equal(t, float64(2), stats["verses_read_total"])
	assert.Equal(t, float64(1), stats["prayers_completed_total"])
	assert.Equal(t, float64(1), stats["posts_created_total"])
	assert.Equal(t, float64(1), stats["current_streak"])
}

func TestAdminExpire(t *testing.T) {
	t.Run("disabled without key", func(t *testing.T) {
		env := newTestEnv(t)
		resp := env.do(t, http.MethodPost, "/api/admin/live-posts/expire", "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("wrong key", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) { c.AdminAPIKey = "letmein" })
		req := httptest.NewRequest(http.MethodPost, "/api/admin/live-posts/expire", nil)
		req.Header.Set(adminKeyHeader, "nope")
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ends expired posts", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) { c.AdminAPIKey = "letmein" })
		past := time.Now().UTC().Add(-2 * time.Hour)
		for i := 0; i < 3; i++ {
			testutil.CreateLivePost(t, env.db, func(p *models.LivePost) {
				p.EndAt = past
				p.LiveUntil = past
			})
		}

		expire := func() map[string]float64 {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/live-posts/expire", nil)
			req.Header.Set(adminKeyHeader, "letmein")
			resp, err := env.app.Test(req, -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			var body map[string]float64
			decode(t, resp, &body)
			return body
		}

		assert.Equal(t, float64(3), expire()["expired"])
		assert.Equal(t, float64(0), expire()["expired"])
	})
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = parsePagination(c, defaultPaginationLimit)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Limit: 20, Offset: 0}},
		{"?limit=5&offset=10", Pagination{Limit: 5, Offset: 10}},
		{"?limit=0&offset=-3", Pagination{Limit: 20, Offset: 0}},
		{"?limit=1000", Pagination{Limit: 100, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupMiddleware_PreflightBypassesLimiter(t *testing.T) {
	srv := &Server{
		config: &config.Config{
			AllowedOrigins: "http://localhost:5173",
		},
	}

	app := fiber.New()
	srv.SetupMiddleware(app)
	app.Post("/limited", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 100; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/limited", nil), -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodOptions, "/limited", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
