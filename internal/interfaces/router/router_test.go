package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"botsales-backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	mr := miniredis.RunT(t)
	return &config.Config{
		Env:                 "test",
		RedisURL:            "redis://" + mr.Addr(),
		SessionSecret:       "router-secret",
		FrontendURLEndsWith: ".botsales.com.au",
		HealthAdminKey:      "admin",
		RecentListingsLimit: 4,
	}
}

func newApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()
	app, _, rdb, err := CreateApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}, cookies []*http.Cookie) (*http.Response, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestCreateApp_PublicCatalogue(t *testing.T) {
	app := newApp(t, testConfig(t))

	resp, body := do(t, app, "GET", "/api/v1/listings/featured", nil, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, body["data"])

	resp, body = do(t, app, "GET", "/api/v1/listings/recent", nil, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Len(t, body["data"], 4)

	resp, _ = do(t, app, "GET", "/api/v1/listings/listing-1", nil, nil)
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/api/v1/listings/does-not-exist", nil, nil)
	assert.Equal(t, 404, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/api/v1/news?limit=2", nil, nil)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCreateApp_ProtectedRoutesNeedSession(t *testing.T) {
	app := newApp(t, testConfig(t))
	for _, path := range []string{"/api/v1/favorites", "/api/v1/conversations", "/api/v1/saved-searches"} {
		resp, _ := do(t, app, "GET", path, nil, nil)
		assert.Equal(t, 401, resp.StatusCode, path)
	}
}

func TestCreateApp_SellAndMessageFlow(t *testing.T) {
	app := newApp(t, testConfig(t))

	resp, body := do(t, app, "POST", "/api/v1/auth/login", map[string]string{"email": "sarah.chen@example.com"}, nil)
	require.Equal(t, 200, resp.StatusCode)
	seller := resp.Cookies()
	sellerID := body["data"].(map[string]interface{})["user"].(map[string]interface{})["id"].(string)

	resp, _ = do(t, app, "POST", "/api/v1/auth/login", map[string]string{"email": "newbuyer@example.com"}, nil)
	require.Equal(t, 200, resp.StatusCode)
	buyer := resp.Cookies()

	resp, _ = do(t, app, "POST", "/api/v1/saved-searches", map[string]interface{}{
		"name":        "Cheap mowers",
		"filters":     map[string]interface{}{"category": "lawn-garden", "maxPrice": 5000},
		"emailAlerts": true,
	}, buyer)
	require.Equal(t, 201, resp.StatusCode)

	resp, body = do(t, app, "POST", "/api/v1/listings", map[string]interface{}{
		"title":       "Automower 430X",
		"description": "Serviced last spring",
		"category":    "lawn-garden",
		"brand":       "Husqvarna",
		"model":       "430X",
		"condition":   "good",
		"price":       2100,
		"location":    map[string]string{"city": "Hobart", "state": "TAS", "postcode": "7000"},
	}, seller)
	require.Equal(t, 201, resp.StatusCode)
	listingID := body["data"].(map[string]interface{})["id"].(string)
	assert.EqualValues(t, 1, body["metadata"].(map[string]interface{})["alertsSent"])

	resp, body = do(t, app, "POST", "/api/v1/conversations", map[string]interface{}{
		"listingId":   listingID,
		"recipientId": sellerID,
		"message":     "Is the charging station included?",
	}, buyer)
	require.Equal(t, 201, resp.StatusCode)
	convID := body["data"].(map[string]interface{})["id"].(string)

	resp, body = do(t, app, "GET", "/api/v1/conversations/unread-count", nil, seller)
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["count"])

	resp, _ = do(t, app, "POST", "/api/v1/conversations/"+convID+"/read", nil, seller)
	assert.Equal(t, 200, resp.StatusCode)

	resp, body = do(t, app, "GET", "/api/v1/conversations/unread-count", nil, seller)
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 0, body["data"].(map[string]interface{})["count"])
}

func TestCreateApp_HealthAndMetrics(t *testing.T) {
	app := newApp(t, testConfig(t))
	do(t, app, "GET", "/api/v1/listings/search?q=drone", nil, nil)

	resp, body := do(t, app, "GET", "/health/json", nil, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, _ = do(t, app, "GET", "/reset?key=wrong", nil, nil)
	assert.Equal(t, 403, resp.StatusCode)

	req := httptest.NewRequest("GET", "/metrics", nil)
	mresp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(mresp.Body)
	assert.True(t, strings.Contains(string(raw), "botsales_searches_total"))
}

func TestCreateApp_ImportsSeedIntoEmptyDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseURL = "sqlite:" + filepath.Join(t.TempDir(), "catalogue.db")

	app, db, rdb, err := CreateApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })
	require.NotNil(t, db)

	var n int64
	require.NoError(t, db.Table("listings").Count(&n).Error)
	assert.EqualValues(t, 16, n)

	resp, _ := do(t, app, "GET", "/api/v1/listings/listing-1", nil, nil)
	assert.Equal(t, 200, resp.StatusCode)
}
