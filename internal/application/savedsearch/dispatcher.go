package savedsearch

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"botsales-backend/internal/domain"
)

// Alert tells one user that a new listing matches one of their saved searches.
type Alert struct {
	Search    domain.SavedSearch `json:"search"`
	Listing   domain.Listing     `json:"listing"`
	Recipient domain.User        `json:"recipient"`
}

// Notifier delivers alerts (NATS, SMTP, ...).
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// Notifiers fans an alert out to every notifier and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, a Alert) error {
	var errs []error
	for _, n := range ns {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type UserLookup interface {
	GetUser(id string) (domain.User, bool)
}

type Dispatcher struct {
	Registry *Registry
	Notifier Notifier
	Users    UserLookup
}

// NotifyNewListing sends one alert per matching saved search and returns the number
// delivered. Owners that no longer exist are skipped.
func (d *Dispatcher) NotifyNewListing(ctx context.Context, l domain.Listing) (int, error) {
	matches := d.Registry.AlertsFor(l)
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	sent := 0
	var errs []error
	for _, s := range matches {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		u, ok := d.Users.GetUser(s.OwnerID)
		if !ok {
			continue
		}
		if err := d.Notifier.Notify(ctx, Alert{Search: s, Listing: l, Recipient: u}); err != nil {
			errs = append(errs, fmt.Errorf("alert %s: %w", s.ID, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
