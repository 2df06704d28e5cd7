package user

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	listsvc "botsales-backend/internal/application/listings"
	"botsales-backend/internal/application/store"
	usersvc "botsales-backend/internal/application/user"
	"botsales-backend/internal/domain"
	"botsales-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserTest(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	st := store.New()
	st.Seed(
		[]domain.User{{ID: "u1", Email: "sam@example.com", Name: "Sam"}},
		[]domain.Listing{
			{ID: "l1", SellerID: "u1", Status: domain.StatusActive},
			{ID: "l2", SellerID: "u1", Status: domain.StatusSold},
		},
	)
	sessions := middleware.NewSessionStore(rdb, middleware.SessionConfig{})
	h := &Handlers{
		Service:        &usersvc.Service{Store: st},
		ListingService: listsvc.NewService(st, 0),
		Sessions:       sessions,
	}

	app := fiber.New()
	app.Use(sessions.Middleware())
	app.Use(func(c *fiber.Ctx) error {
		if uid := c.Get("X-Test-User"); uid != "" {
			middleware.SetCurrentUser(c, &middleware.SessionUser{UserID: uid})
		}
		return c.Next()
	})
	app.Post("/api/v1/users/register", h.Register)
	app.Patch("/api/v1/users/me", middleware.RequireAuth(), h.UpdateMe)
	app.Get("/api/v1/users/:id", h.Get)
	app.Get("/api/v1/users/:id/listings", h.Listings)
	return app, mr
}

func do(t *testing.T, app *fiber.App, method, path, user string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func userOf(body map[string]interface{}) map[string]interface{} {
	return body["data"].(map[string]interface{})["user"].(map[string]interface{})
}

func TestRegister(t *testing.T) {
	app, mr := setupUserTest(t)

	code, body := do(t, app, "POST", "/api/v1/users/register", "", map[string]string{"email": "  Kim@Example.com "})
	require.Equal(t, 201, code, body)
	u := userOf(body)
	assert.Equal(t, "kim@example.com", u["email"])
	assert.Equal(t, "kim", u["name"])
	assert.Equal(t, "Sydney", u["location"].(map[string]interface{})["city"])
	assert.Len(t, mr.Keys(), 1)

	code, _ = do(t, app, "POST", "/api/v1/users/register", "", map[string]string{"email": "SAM@example.com"})
	assert.Equal(t, 400, code)
	code, _ = do(t, app, "POST", "/api/v1/users/register", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, 400, code)
}

func TestGetAndListings(t *testing.T) {
	app, _ := setupUserTest(t)

	code, body := do(t, app, "GET", "/api/v1/users/u1", "", nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, float64(1), userOf(body)["listingsCount"])

	_, body = do(t, app, "GET", "/api/v1/users/u1/listings", "", nil)
	assert.Len(t, body["data"], 2)

	code, _ = do(t, app, "GET", "/api/v1/users/ghost", "", nil)
	assert.Equal(t, 404, code)
	code, _ = do(t, app, "GET", "/api/v1/users/ghost/listings", "", nil)
	assert.Equal(t, 404, code)
}

func TestUpdateMe(t *testing.T) {
	app, _ := setupUserTest(t)

	code, _ := do(t, app, "PATCH", "/api/v1/users/me", "", map[string]string{"bio": "hi"})
	assert.Equal(t, 401, code)

	code, body := do(t, app, "PATCH", "/api/v1/users/me", "u1", map[string]string{"bio": " Robot tinkerer "})
	assert.Equal(t, 200, code)
	assert.Equal(t, "Robot tinkerer", userOf(body)["bio"])
	assert.Equal(t, "sam@example.com", userOf(body)["email"])

	code, _ = do(t, app, "PATCH", "/api/v1/users/me", "u1", map[string]string{"name": "   "})
	assert.Equal(t, 400, code)
}
