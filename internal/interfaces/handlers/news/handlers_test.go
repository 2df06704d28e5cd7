package news

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	newssvc "botsales-backend/internal/application/news"
	"botsales-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNewsTest(t *testing.T) *fiber.App {
	t.Helper()
	t0 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	h := &Handlers{Feed: newssvc.NewFeed([]domain.NewsArticle{
		{ID: "a1", Title: "Boston Dynamics unveils new Atlas", PublishedAt: t0},
		{ID: "a2", Title: "Robotics startup raises $50 million", PublishedAt: t0.Add(time.Hour)},
		{ID: "a3", Title: "Hands-on review: Roborock S8", PublishedAt: t0.Add(2 * time.Hour)},
	})}
	app := fiber.New()
	app.Post("/api/v1/news/classify", h.Classify)
	app.Get("/api/v1/news", h.List)
	return app
}

func TestClassify(t *testing.T) {
	app := setupNewsTest(t)
	body, _ := json.Marshal(map[string]string{"title": "DJI unveils the Mini 5", "description": "a lighter drone"})
	req := httptest.NewRequest("POST", "/api/v1/news/classify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "product", data["category"])
	assert.Equal(t, []interface{}{"DJI", "drone"}, data["tags"])

	req = httptest.NewRequest("POST", "/api/v1/news/classify", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestList(t *testing.T) {
	app := setupNewsTest(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/news?limit=2", nil))
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	items := out["data"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "a3", items[0].(map[string]interface{})["id"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/news?category=business", nil))
	require.NoError(t, err)
	out = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	items = out["data"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "a2", items[0].(map[string]interface{})["id"])
}
