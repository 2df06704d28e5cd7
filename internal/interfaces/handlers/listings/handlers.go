package listings

import (
	"context"
	"strconv"
	"strings"

	listsvc "botsales-backend/internal/application/listings"
	"botsales-backend/internal/application/savedsearch"
	"botsales-backend/internal/application/search"
	"botsales-backend/internal/domain"
	"botsales-backend/internal/middleware"
	"botsales-backend/internal/pkg/response"
	"botsales-backend/internal/pkg/validation"
	"botsales-backend/internal/platform/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Events receives listing lifecycle notifications. The NATS publisher implements it.
type Events interface {
	ListingCreated(ctx context.Context, l domain.Listing) error
	ListingChanged(ctx context.Context, l domain.Listing) error
	ListingDeleted(ctx context.Context, id, sellerID string) error
}

type Handlers struct {
	Service *listsvc.Service
	Engine  *search.Engine
	Alerts  *savedsearch.Dispatcher
	Events  Events
	Metrics *metrics.MetricsManager
}

// GET /api/v1/listings/search
func (h *Handlers) Search(c *fiber.Ctx) error {
	f, err := ParseFilters(c)
	if err != nil {
		return response.FromError(c, err)
	}
	listings := h.Engine.Search(f)
	if h.Metrics != nil {
		h.Metrics.SearchesTotal.Inc()
	}
	return response.Success(c, "Listings fetched successfully", listings, fiber.Map{
		"total":   len(listings),
		"filters": f,
	})
}

// GET /api/v1/listings/count
func (h *Handlers) Count(c *fiber.Ctx) error {
	f, err := ParseFilters(c)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listings counted successfully", fiber.Map{"count": h.Engine.Count(f)}, nil)
}

// GET /api/v1/listings/suggestions?q=
func (h *Handlers) Suggestions(c *fiber.Ctx) error {
	return response.Success(c, "Suggestions fetched successfully", h.Engine.Suggest(c.Query("q")), nil)
}

func (h *Handlers) Featured(c *fiber.Ctx) error {
	return response.Success(c, "Featured listings fetched successfully", h.Service.GetFeaturedListings(), nil)
}

// GET /api/v1/listings/recent?limit=
func (h *Handlers) Recent(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "0"))
	if err != nil {
		return response.FromError(c, domain.ValidationErrors{{Field: "limit", Message: "must be a whole number"}})
	}
	return response.Success(c, "Recent listings fetched successfully", h.Service.GetRecentListings(limit), nil)
}

// GET /api/v1/listings/:id counts as a view.
func (h *Handlers) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	h.Service.IncrementViews(id)
	l, ok := h.Service.GetListing(id)
	if !ok {
		return response.FromError(c, domain.ErrListingNotFound)
	}
	if h.Metrics != nil {
		h.Metrics.ListingViews.Inc()
	}
	meta := fiber.Map{"isFavorite": false}
	if uid := middleware.ActingUserID(c); uid != "" {
		meta["isFavorite"] = h.Service.IsFavorite(uid, id)
	}
	return response.Success(c, "Listing fetched successfully", l, meta)
}

// POST /api/v1/listings
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in listsvc.CreateListingInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	l, err := h.Service.CreateListing(middleware.ActingUserID(c), in)
	if err != nil {
		return response.FromError(c, err)
	}
	if h.Metrics != nil {
		h.Metrics.ListingsCreated.Inc()
	}

	sent := 0
	if h.Alerts != nil {
		sent, err = h.Alerts.NotifyNewListing(c.UserContext(), l)
		if err != nil {
			log.Warn().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("listing_id", l.ID).Msg("Some saved-search alerts failed")
		}
		if h.Metrics != nil {
			h.Metrics.AlertsSent.Add(float64(sent))
		}
	}
	if h.Events != nil {
		h.publish(c, h.Events.ListingCreated(c.UserContext(), l))
	}
	return response.SuccessCreated(c, "Listing created successfully", l, fiber.Map{"alertsSent": sent})
}

// PATCH /api/v1/listings/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	var p listsvc.ListingPatch
	if err := c.BodyParser(&p); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	l, err := h.Service.EditListing(middleware.ActingUserID(c), c.Params("id"), p)
	if err != nil {
		return response.FromError(c, err)
	}
	if h.Events != nil {
		h.publish(c, h.Events.ListingChanged(c.UserContext(), l))
	}
	return response.Success(c, "Listing updated successfully", l, nil)
}

type statusRequest struct {
	Status domain.ListingStatus `json:"status"`
}

// PATCH /api/v1/listings/:id/status
func (h *Handlers) ChangeStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	l, err := h.Service.ChangeStatus(middleware.ActingUserID(c), c.Params("id"), req.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	if h.Events != nil {
		h.publish(c, h.Events.ListingChanged(c.UserContext(), l))
	}
	return response.Success(c, "Listing status updated successfully", l, nil)
}

// DELETE /api/v1/listings/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	sellerID := middleware.ActingUserID(c)
	id := c.Params("id")
	if err := h.Service.DeleteListing(sellerID, id); err != nil {
		return response.FromError(c, err)
	}
	if h.Events != nil {
		h.publish(c, h.Events.ListingDeleted(c.UserContext(), id, sellerID))
	}
	return response.Success(c, "Listing deleted successfully", fiber.Map{"id": id}, nil)
}

// Event delivery is best effort; the request already succeeded.
func (h *Handlers) publish(c *fiber.Ctx, err error) {
	if err != nil {
		log.Warn().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("Failed to publish listing event")
	}
}

// ParseFilters reads search filters from the query string. condition may repeat or be
// comma separated.
func ParseFilters(c *fiber.Ctx) (domain.SearchFilters, error) {
	f := domain.SearchFilters{
		Query:    strings.TrimSpace(firstNonEmpty(c.Query("q"), c.Query("query"))),
		Category: domain.Category(c.Query("category")),
		Brand:    strings.TrimSpace(c.Query("brand")),
		Location: strings.TrimSpace(c.Query("location")),
		SortBy:   domain.SortBy(c.Query("sortBy")),
	}
	if f.Category == "all" {
		f.Category = ""
	}

	var errs domain.ValidationErrors
	for _, bound := range []struct {
		name string
		dst  **int64
	}{{"minPrice", &f.MinPrice}, {"maxPrice", &f.MaxPrice}} {
		raw := strings.TrimSpace(c.Query(bound.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = append(errs, &domain.ValidationError{Field: bound.name, Message: "must be a whole number"})
			continue
		}
		*bound.dst = &v
	}
	if len(errs) > 0 {
		return domain.SearchFilters{}, errs
	}

	for _, raw := range c.Context().QueryArgs().PeekMulti("condition") {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				f.Condition = append(f.Condition, domain.Condition(part))
			}
		}
	}

	if err := validation.SearchFilters(f); err != nil {
		return domain.SearchFilters{}, err
	}
	return f, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
