package ranking

import (
	"testing"
	"time"

	"botsales-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func fixtures() []domain.Listing {
	return []domain.Listing{
		{ID: "a", Price: 500, Views: 10, CreatedAt: t0.Add(2 * time.Hour)},
		{ID: "b", Price: 100, Views: 40, CreatedAt: t0, Featured: true},
		{ID: "c", Price: 500, Views: 40, CreatedAt: t0.Add(time.Hour)},
		{ID: "d", Price: 900, Views: 5, CreatedAt: t0.Add(3 * time.Hour), Featured: true},
	}
}

func ids(ls []domain.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestOrder_Newest(t *testing.T) {
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(Order(fixtures(), domain.SortNewest)))
}

func TestOrder_Oldest(t *testing.T) {
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(Order(fixtures(), domain.SortOldest)))
}

func TestOrder_PriceLowIsStable(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(Order(fixtures(), domain.SortPriceLow)))
}

func TestOrder_PriceHighIsStable(t *testing.T) {
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(Order(fixtures(), domain.SortPriceHigh)))
}

func TestOrder_RelevanceFeaturedThenViews(t *testing.T) {
	want := []string{"b", "d", "c", "a"}
	assert.Equal(t, want, ids(Order(fixtures(), domain.SortRelevance)))
	assert.Equal(t, want, ids(Order(fixtures(), "")))
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	in := fixtures()
	_ = Order(in, domain.SortPriceHigh)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(in))
}

func TestOrder_Empty(t *testing.T) {
	assert.Empty(t, Order(nil, domain.SortNewest))
}
