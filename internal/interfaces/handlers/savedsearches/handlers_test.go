package savedsearches

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"botsales-backend/internal/application/savedsearch"
	"botsales-backend/internal/application/search"
	"botsales-backend/internal/application/store"
	"botsales-backend/internal/domain"
	"botsales-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSavedSearchesTest(t *testing.T) *fiber.App {
	t.Helper()
	st := store.New()
	st.Seed(nil, []domain.Listing{
		{ID: "l1", SellerID: "s", Category: domain.CategoryDrones, Price: 400, Status: domain.StatusActive},
		{ID: "l2", SellerID: "s", Category: domain.CategoryDrones, Price: 1400, Status: domain.StatusActive},
		{ID: "l3", SellerID: "s", Category: domain.CategoryCompanion, Price: 300, Status: domain.StatusActive},
	})
	h := &Handlers{Registry: savedsearch.NewRegistry(), Search: search.NewEngine(st)}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middleware.SetCurrentUser(c, &middleware.SessionUser{UserID: c.Get("X-Test-User")})
		return c.Next()
	})
	g := app.Group("/api/v1/saved-searches")
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Delete("/:id", h.Delete)
	g.Patch("/:id/alerts", h.ToggleAlerts)
	g.Get("/:id/results", h.Results)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, user string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestSavedSearchLifecycle(t *testing.T) {
	app := setupSavedSearchesTest(t)

	code, body := do(t, app, "POST", "/api/v1/saved-searches/", "u1", map[string]interface{}{
		"filters": map[string]interface{}{"category": "drones", "maxPrice": 1000, "sortBy": "price-low"},
	})
	require.Equal(t, 201, code, body)
	saved := body["data"].(map[string]interface{})
	id := saved["id"].(string)
	assert.Equal(t, savedsearch.DefaultName, saved["name"])
	assert.Equal(t, false, saved["emailAlerts"])

	_, body = do(t, app, "GET", "/api/v1/saved-searches/"+id+"/results", "u1", nil)
	results := body["data"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "l1", results[0].(map[string]interface{})["id"])

	_, body = do(t, app, "PATCH", "/api/v1/saved-searches/"+id+"/alerts", "u1", nil)
	assert.Equal(t, true, body["data"].(map[string]interface{})["emailAlerts"])

	// other users cannot see or touch it
	code, _ = do(t, app, "GET", "/api/v1/saved-searches/"+id+"/results", "u2", nil)
	assert.Equal(t, 404, code)
	_, body = do(t, app, "GET", "/api/v1/saved-searches/", "u2", nil)
	assert.Empty(t, body["data"])

	code, _ = do(t, app, "DELETE", "/api/v1/saved-searches/"+id, "u1", nil)
	assert.Equal(t, 200, code)
	code, _ = do(t, app, "DELETE", "/api/v1/saved-searches/"+id, "u1", nil)
	assert.Equal(t, 404, code)
}

func TestCreate_RejectsInvalidFilters(t *testing.T) {
	app := setupSavedSearchesTest(t)
	code, _ := do(t, app, "POST", "/api/v1/saved-searches/", "u1", map[string]interface{}{
		"name":    "Bad",
		"filters": map[string]interface{}{"condition": []string{"broken"}},
	})
	assert.Equal(t, 400, code)
}
