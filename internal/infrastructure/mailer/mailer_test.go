package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"botsales-backend/internal/application/savedsearch"
	"botsales-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func alert(emailAlerts bool) savedsearch.Alert {
	return savedsearch.Alert{
		Search:    domain.SavedSearch{ID: "s1", Name: "Mowers", EmailAlerts: emailAlerts},
		Listing:   domain.Listing{ID: "l1", Title: "Automower", Price: 900, Location: domain.Location{City: "Perth", State: "WA"}},
		Recipient: domain.User{ID: "u1", Name: "Jo", Email: "jo@example.com"},
	}
}

func TestMailer_Notify(t *testing.T) {
	s := &fakeSender{}
	m := &Mailer{From: "alerts@botsales.com.au", Sender: s}

	require.NoError(t, m.Notify(context.Background(), alert(true)))
	require.Len(t, s.sent, 1)
	assert.Equal(t, []string{"jo@example.com"}, s.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"alerts@botsales.com.au"}, s.sent[0].GetHeader("From"))
	assert.Equal(t, []string{`New match for "Mowers"`}, s.sent[0].GetHeader("Subject"))
}

func TestMailer_SkipsDisabledAlerts(t *testing.T) {
	s := &fakeSender{}
	m := &Mailer{From: "a@b.co", Sender: s}
	require.NoError(t, m.Notify(context.Background(), alert(false)))
	assert.Empty(t, s.sent)
}

func TestMailer_WrapsSendError(t *testing.T) {
	m := &Mailer{From: "a@b.co", Sender: &fakeSender{err: errors.New("smtp down")}}
	err := m.Notify(context.Background(), alert(true))
	assert.ErrorContains(t, err, "jo@example.com")
}

func TestBuildAlert_HTMLEscapesListingText(t *testing.T) {
	a := alert(true)
	a.Listing.Title = `<script>alert("x")</script>`
	html, err := renderAlertHTML(a, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "https://botsales.com.au/listings/l1")
	assert.Contains(t, html, "2025 BotSales")
}

func TestFormatPrice(t *testing.T) {
	cases := map[int64]string{0: "$0", 950: "$950", 1500: "$1,500", 1234567: "$1,234,567", -2500: "-$2,500"}
	for in, want := range cases {
		assert.Equal(t, want, formatPrice(in))
	}
}
