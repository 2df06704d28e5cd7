package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	listsvc "botsales-backend/internal/application/listings"
	"botsales-backend/internal/application/savedsearch"
	"botsales-backend/internal/application/search"
	"botsales-backend/internal/application/store"
	"botsales-backend/internal/domain"
	"botsales-backend/internal/middleware"
	"botsales-backend/internal/platform/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	alerts []savedsearch.Alert
}

func (r *recordingNotifier) Notify(_ context.Context, a savedsearch.Alert) error {
	r.alerts = append(r.alerts, a)
	return nil
}

type recordingEvents struct {
	kinds []string
}

func (r *recordingEvents) ListingCreated(context.Context, domain.Listing) error {
	r.kinds = append(r.kinds, "created")
	return nil
}

func (r *recordingEvents) ListingChanged(_ context.Context, l domain.Listing) error {
	r.kinds = append(r.kinds, "changed:"+string(l.Status))
	return nil
}

func (r *recordingEvents) ListingDeleted(context.Context, string, string) error {
	r.kinds = append(r.kinds, "deleted")
	return nil
}

type fixture struct {
	app      *fiber.App
	store    *store.Store
	registry *savedsearch.Registry
	notifier *recordingNotifier
	events   *recordingEvents
	metrics  *metrics.MetricsManager
}

func setupListingsTest(t *testing.T) *fixture {
	t.Helper()
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	st := store.New()
	st.Seed(
		[]domain.User{
			{ID: "seller", Email: "seller@example.com", Name: "Sal"},
			{ID: "buyer", Email: "buyer@example.com", Name: "Bea"},
		},
		[]domain.Listing{
			{ID: "l1", SellerID: "seller", Title: "Roomba j7+", Brand: "iRobot", Model: "j7+", Category: domain.CategoryHomeCleaning,
				Condition: domain.ConditionLikeNew, Price: 650, Status: domain.StatusActive, Featured: true, CreatedAt: t0,
				Location: domain.Location{City: "Sydney", State: "NSW", Postcode: "2000"}},
			{ID: "l2", SellerID: "seller", Title: "DJI Mini 3", Brand: "DJI", Model: "Mini 3", Category: domain.CategoryDrones,
				Condition: domain.ConditionGood, Price: 500, Status: domain.StatusActive, CreatedAt: t0.Add(time.Hour),
				Location: domain.Location{City: "Melbourne", State: "VIC", Postcode: "3000"}},
			{ID: "l3", SellerID: "seller", Title: "Roomba 980", Brand: "iRobot", Model: "980", Category: domain.CategoryHomeCleaning,
				Condition: domain.ConditionFair, Price: 200, Status: domain.StatusSold, CreatedAt: t0.Add(2 * time.Hour)},
		},
	)
	registry := savedsearch.NewRegistry()
	notifier := &recordingNotifier{}
	events := &recordingEvents{}
	mm := metrics.NewMetricsManager()
	h := &Handlers{
		Service: listsvc.NewService(st, 0),
		Engine:  search.NewEngine(st),
		Alerts:  &savedsearch.Dispatcher{Registry: registry, Notifier: notifier, Users: st},
		Events:  events,
		Metrics: mm,
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if uid := c.Get("X-Test-User"); uid != "" {
			middleware.SetCurrentUser(c, &middleware.SessionUser{UserID: uid})
		}
		return c.Next()
	})
	g := app.Group("/api/v1/listings")
	g.Get("/search", h.Search)
	g.Get("/count", h.Count)
	g.Get("/suggestions", h.Suggestions)
	g.Get("/featured", h.Featured)
	g.Get("/recent", h.Recent)
	g.Get("/:id", h.Get)
	g.Post("/", middleware.RequireAuth(), h.Create)
	g.Patch("/:id", middleware.RequireAuth(), h.Update)
	g.Patch("/:id/status", middleware.RequireAuth(), h.ChangeStatus)
	g.Delete("/:id", middleware.RequireAuth(), h.Delete)

	return &fixture{app: app, store: st, registry: registry, notifier: notifier, events: events, metrics: mm}
}

func (f *fixture) do(t *testing.T, method, path, user string, body interface{}) (int, map[string]interface{}) {
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
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func ids(t *testing.T, data interface{}) []string {
	t.Helper()
	items, ok := data.([]interface{})
	require.True(t, ok, "data is not a list: %v", data)
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.(map[string]interface{})["id"].(string))
	}
	return out
}

func TestSearch_FiltersAndSort(t *testing.T) {
	f := setupListingsTest(t)

	code, body := f.do(t, "GET", "/api/v1/listings/search?sortBy=price-low", "", nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, []string{"l2", "l1"}, ids(t, body["data"]))

	_, body = f.do(t, "GET", "/api/v1/listings/search?q=roomba", "", nil)
	assert.Equal(t, []string{"l1"}, ids(t, body["data"]))

	_, body = f.do(t, "GET", "/api/v1/listings/search?condition=good&condition=fair", "", nil)
	assert.Equal(t, []string{"l2"}, ids(t, body["data"]))

	_, body = f.do(t, "GET", "/api/v1/listings/search?condition=good,like-new&maxPrice=600", "", nil)
	assert.Equal(t, []string{"l2"}, ids(t, body["data"]))

	assert.Equal(t, float64(4), testutil.ToFloat64(f.metrics.SearchesTotal))
}

func TestSearch_InvalidParams(t *testing.T) {
	f := setupListingsTest(t)

	code, body := f.do(t, "GET", "/api/v1/listings/search?minPrice=cheap", "", nil)
	assert.Equal(t, 400, code)
	assert.Equal(t, "error", body["status"])

	code, _ = f.do(t, "GET", "/api/v1/listings/search?category=toasters", "", nil)
	assert.Equal(t, 400, code)

	code, _ = f.do(t, "GET", "/api/v1/listings/search?sortBy=random", "", nil)
	assert.Equal(t, 400, code)
}

func TestCountAndSuggestions(t *testing.T) {
	f := setupListingsTest(t)

	code, body := f.do(t, "GET", "/api/v1/listings/count?category=home-cleaning", "", nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, float64(1), body["data"].(map[string]interface{})["count"])

	_, body = f.do(t, "GET", "/api/v1/listings/suggestions?q=ro", "", nil)
	sugg := body["data"].([]interface{})
	require.NotEmpty(t, sugg)
	assert.Equal(t, "iRobot", sugg[0].(map[string]interface{})["text"])

	_, body = f.do(t, "GET", "/api/v1/listings/suggestions?q=r", "", nil)
	assert.Empty(t, body["data"])
}

func TestFeaturedAndRecent(t *testing.T) {
	f := setupListingsTest(t)
	_, body := f.do(t, "GET", "/api/v1/listings/featured", "", nil)
	assert.Equal(t, []string{"l1"}, ids(t, body["data"]))

	_, body = f.do(t, "GET", "/api/v1/listings/recent?limit=1", "", nil)
	assert.Equal(t, []string{"l2"}, ids(t, body["data"]))

	code, _ := f.do(t, "GET", "/api/v1/listings/recent?limit=abc", "", nil)
	assert.Equal(t, 400, code)
}

func TestGet_IncrementsViews(t *testing.T) {
	f := setupListingsTest(t)
	f.store.ToggleFavorite("buyer", "l1")

	code, body := f.do(t, "GET", "/api/v1/listings/l1", "buyer", nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, true, body["metadata"].(map[string]interface{})["isFavorite"])
	f.do(t, "GET", "/api/v1/listings/l1", "", nil)

	l, _ := f.store.GetListing("l1")
	assert.Equal(t, int64(2), l.Views)

	code, _ = f.do(t, "GET", "/api/v1/listings/nope", "", nil)
	assert.Equal(t, 404, code)
}

func TestCreate_DispatchesAlerts(t *testing.T) {
	f := setupListingsTest(t)
	f.registry.Add("buyer", "Drones", domain.SearchFilters{Category: domain.CategoryDrones}, true)
	f.registry.Add("buyer", "Mowers", domain.SearchFilters{Category: domain.CategoryLawnGarden}, true)

	in := map[string]interface{}{
		"title": "Mavic 3 Classic", "description": "Flown twice", "category": "drones",
		"brand": "DJI", "model": "Mavic 3", "condition": "excellent", "price": 1800,
		"location": map[string]string{"city": "Hobart", "state": "TAS", "postcode": "7000"},
	}
	code, body := f.do(t, "POST", "/api/v1/listings/", "seller", in)
	require.Equal(t, 201, code, body)
	assert.Equal(t, float64(1), body["metadata"].(map[string]interface{})["alertsSent"])
	require.Len(t, f.notifier.alerts, 1)
	assert.Equal(t, "Drones", f.notifier.alerts[0].Search.Name)
	assert.Equal(t, []string{"created"}, f.events.kinds)

	code, _ = f.do(t, "POST", "/api/v1/listings/", "", in)
	assert.Equal(t, 401, code)

	in["location"] = map[string]string{"city": "Hobart", "state": "TAS", "postcode": "70"}
	code, body = f.do(t, "POST", "/api/v1/listings/", "seller", in)
	assert.Equal(t, 400, code)
	fields := body["error"].(map[string]interface{})["details"].(map[string]interface{})["fields"].([]interface{})
	assert.Equal(t, "location.postcode", fields[0].(map[string]interface{})["field"])
}

func TestCreate_IgnoresFeaturedFlag(t *testing.T) {
	f := setupListingsTest(t)
	in := map[string]interface{}{
		"title": "Aibo ERS-1000", "description": "Boxed", "category": "companion",
		"brand": "Sony", "model": "ERS-1000", "condition": "new", "price": 3200, "featured": true,
		"location": map[string]string{"city": "Perth", "state": "WA", "postcode": "6000"},
	}
	code, body := f.do(t, "POST", "/api/v1/listings/", "seller", in)
	require.Equal(t, 201, code, body)
	assert.NotEqual(t, true, body["data"].(map[string]interface{})["featured"])

	_, body = f.do(t, "GET", "/api/v1/listings/featured", "", nil)
	featured := body["data"].([]interface{})
	require.Len(t, featured, 1)
	assert.Equal(t, "l1", featured[0].(map[string]interface{})["id"])
}

func TestUpdateStatusDelete_OwnerOnly(t *testing.T) {
	f := setupListingsTest(t)

	code, _ := f.do(t, "PATCH", "/api/v1/listings/l2", "buyer", map[string]interface{}{"price": 1})
	assert.Equal(t, 403, code)

	code, body := f.do(t, "PATCH", "/api/v1/listings/l2", "seller", map[string]interface{}{"price": 450})
	assert.Equal(t, 200, code)
	assert.Equal(t, float64(450), body["data"].(map[string]interface{})["price"])

	code, _ = f.do(t, "PATCH", "/api/v1/listings/l2/status", "seller", map[string]string{"status": "sold"})
	assert.Equal(t, 200, code)
	code, _ = f.do(t, "PATCH", "/api/v1/listings/l2/status", "seller", map[string]string{"status": "active"})
	assert.Equal(t, 400, code)

	code, _ = f.do(t, "DELETE", "/api/v1/listings/l1", "buyer", nil)
	assert.Equal(t, 403, code)
	code, _ = f.do(t, "DELETE", "/api/v1/listings/l1", "seller", nil)
	assert.Equal(t, 200, code)
	code, _ = f.do(t, "DELETE", "/api/v1/listings/l1", "seller", nil)
	assert.Equal(t, 404, code)

	assert.Equal(t, []string{"changed:active", "changed:sold", "deleted"}, f.events.kinds)
}
