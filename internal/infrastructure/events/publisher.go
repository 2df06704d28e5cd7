package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"botsales-backend/internal/application/savedsearch"
	"botsales-backend/internal/domain"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const (
	ListingCreatedSubject = "botsales.listing.created"
	ListingUpdatedSubject = "botsales.listing.updated"
	ListingSoldSubject    = "botsales.listing.sold"
	ListingDeletedSubject = "botsales.listing.deleted"
	MessageSentSubject    = "botsales.message.sent"
	AlertSubject          = "botsales.alerts"
)

// Conn is the slice of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

type Publisher struct {
	conn Conn
	nc   *nats.Conn
}

type ListingDeletedPayload struct {
	ID       string `json:"id"`
	SellerID string `json:"sellerId"`
}

type MessageSentPayload struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
	SenderID       string `json:"senderId"`
	RecipientID    string `json:"recipientId"`
}

type AlertPayload struct {
	SearchID    string `json:"searchId"`
	SearchName  string `json:"searchName"`
	RecipientID string `json:"recipientId"`
	Email       string `json:"email"`
	ListingID   string `json:"listingId"`
	Title       string `json:"title"`
	Price       int64  `json:"price"`
}

// Connect dials NATS and logs connection state changes.
func Connect(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("botsales-backend"),
		nats.Timeout(5*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			ev := log.Error().Err(err)
			if sub != nil {
				ev = ev.Str("subject", sub.Subject)
			}
			ev.Msg("NATS error")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Info().Msg("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info().Str("url", nc.ConnectedUrl()).Msg("Connected to NATS")
	return &Publisher{conn: nc, nc: nc}, nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Conn) *Publisher {
	p := &Publisher{conn: conn}
	if nc, ok := conn.(*nats.Conn); ok {
		p.nc = nc
	}
	return p
}

// Publish marshals v as JSON and publishes it on subject.
func (p *Publisher) Publish(ctx context.Context, subject string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to publish NATS message")
		return fmt.Errorf("failed to publish NATS message for %s: %w", subject, err)
	}
	log.Debug().Str("subject", subject).Int("bytes", len(data)).Msg("Published NATS message")
	return nil
}

func (p *Publisher) ListingCreated(ctx context.Context, l domain.Listing) error {
	return p.Publish(ctx, ListingCreatedSubject, l)
}

// ListingChanged picks the sold subject when the listing has just been sold.
func (p *Publisher) ListingChanged(ctx context.Context, l domain.Listing) error {
	if l.Status == domain.StatusSold {
		return p.Publish(ctx, ListingSoldSubject, l)
	}
	return p.Publish(ctx, ListingUpdatedSubject, l)
}

func (p *Publisher) ListingDeleted(ctx context.Context, id, sellerID string) error {
	return p.Publish(ctx, ListingDeletedSubject, ListingDeletedPayload{ID: id, SellerID: sellerID})
}

func (p *Publisher) MessageSent(ctx context.Context, m domain.Message, recipientID string) error {
	return p.Publish(ctx, MessageSentSubject, MessageSentPayload{
		ConversationID: m.ConversationID,
		MessageID:      m.ID,
		SenderID:       m.SenderID,
		RecipientID:    recipientID,
	})
}

// Notify publishes a saved-search alert so downstream consumers can fan it out.
func (p *Publisher) Notify(ctx context.Context, a savedsearch.Alert) error {
	return p.Publish(ctx, AlertSubject, AlertPayload{
		SearchID:    a.Search.ID,
		SearchName:  a.Search.Name,
		RecipientID: a.Recipient.ID,
		Email:       a.Recipient.Email,
		ListingID:   a.Listing.ID,
		Title:       a.Listing.Title,
		Price:       a.Listing.Price,
	})
}

// Ping reports whether the underlying connection is up.
func (p *Publisher) Ping(context.Context) error {
	if p.nc == nil {
		return nil
	}
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats status %s", p.nc.Status())
	}
	return nil
}

func (p *Publisher) Name() string {
	return "nats"
}

func (p *Publisher) Close() {
	if p.nc == nil || p.nc.IsClosed() {
		return
	}
	if err := p.nc.Drain(); err != nil {
		log.Error().Err(err).Msg("Error draining NATS connection")
	}
}
