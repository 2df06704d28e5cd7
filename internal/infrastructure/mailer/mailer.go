package mailer

import (
	"context"
	"fmt"
	"time"

	"botsales-backend/internal/application/savedsearch"
	"botsales-backend/internal/config"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer emails saved-search alerts to their owners.
type Mailer struct {
	From   string
	Sender Sender
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		From:   cfg.From,
		Sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Notify skips searches whose email alerts were switched off after matching.
func (m *Mailer) Notify(ctx context.Context, a savedsearch.Alert) error {
	if !a.Search.EmailAlerts || a.Recipient.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := BuildAlert(m.From, a)
	if err := m.Sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send alert to %s: %w", a.Recipient.Email, err)
	}
	log.Info().Str("search_id", a.Search.ID).Str("listing_id", a.Listing.ID).Msg("Alert email sent")
	return nil
}

func BuildAlert(from string, a savedsearch.Alert) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", a.Recipient.Email)
	msg.SetHeader("Subject", fmt.Sprintf("New match for %q", a.Search.Name))

	name := a.Recipient.Name
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("Hi %s,\n\nA new listing matches your saved search %q:\n\n%s - %s\n%s, %s\n",
		name, a.Search.Name, a.Listing.Title, formatPrice(a.Listing.Price), a.Listing.Location.City, a.Listing.Location.State)
	msg.SetBody("text/plain", body)
	if html, err := renderAlertHTML(a, time.Now()); err == nil {
		msg.AddAlternative("text/html", html)
	} else {
		log.Warn().Err(err).Str("search_id", a.Search.ID).Msg("Alert HTML render failed; sending plain text")
	}
	return msg
}
