package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"botsales-backend/internal/application/savedsearch"
)

const (
	themePrimary   = "#2563EB"
	themeTextMain  = "#1F2937"
	themeTextMuted = "#6B7280"
	themeBgBody    = "#F3F4F6"
	siteURL        = "https://botsales.com.au"
)

var alertTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>BotSales</title>
</head>
<body style="margin: 0; padding: 0; background-color: {{.BgBody}}; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; color: {{.TextMain}};">
  <table role="presentation" width="100%" border="0" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 40px 0;">
        <table role="presentation" width="600" style="width: 600px; background-color: #FFFFFF; border-radius: 8px;">
          <tr>
            <td style="padding: 40px 48px 8px 48px;">
              <h1 style="font-size: 22px; margin: 0 0 16px 0;">Hi {{.Name}},</h1>
              <p style="font-size: 16px; line-height: 1.6;">A new listing matches your saved search <strong>{{.SearchName}}</strong>.</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 0 48px 24px 48px;">
              <div style="background-color: #F9FAFB; border-radius: 6px; padding: 16px;">
                <p style="margin: 0 0 6px 0; font-size: 18px; font-weight: 600;">{{.Title}}</p>
                <p style="margin: 0 0 6px 0; font-size: 16px; color: {{.Primary}}; font-weight: 700;">{{.Price}}</p>
                <p style="margin: 0; font-size: 14px; color: {{.TextMuted}};">{{.Brand}} {{.Model}} &middot; {{.Condition}} &middot; {{.Place}}</p>
              </div>
            </td>
          </tr>
          <tr>
            <td align="center" style="padding: 0 48px 32px 48px;">
              <a href="{{.ListingURL}}" style="display: inline-block; background-color: {{.Primary}}; color: #ffffff; padding: 12px 32px; border-radius: 6px; font-weight: 600; text-decoration: none;">View listing</a>
            </td>
          </tr>
          <tr>
            <td align="center" style="padding: 24px 48px 32px 48px; border-top: 1px solid #E5E7EB;">
              <p style="margin: 0; font-size: 13px; color: {{.TextMuted}};">&copy; {{.Year}} BotSales. Switch off alerts for this search from your saved searches page.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))

type alertView struct {
	BgBody, TextMain, TextMuted, Primary string

	Name, SearchName    string
	Title, Brand, Model string
	Condition, Place    string
	Price               string
	ListingURL          string
	Year                int
}

// renderAlertHTML fills the branded alert layout. Field values are escaped by html/template.
func renderAlertHTML(a savedsearch.Alert, now time.Time) (string, error) {
	name := a.Recipient.Name
	if name == "" {
		name = "there"
	}
	var buf bytes.Buffer
	err := alertTemplate.Execute(&buf, alertView{
		BgBody:     themeBgBody,
		TextMain:   themeTextMain,
		TextMuted:  themeTextMuted,
		Primary:    themePrimary,
		Name:       name,
		SearchName: a.Search.Name,
		Title:      a.Listing.Title,
		Brand:      a.Listing.Brand,
		Model:      a.Listing.Model,
		Condition:  string(a.Listing.Condition),
		Place:      fmt.Sprintf("%s, %s", a.Listing.Location.City, a.Listing.Location.State),
		Price:      formatPrice(a.Listing.Price),
		ListingURL: siteURL + "/listings/" + a.Listing.ID,
		Year:       now.Year(),
	})
	return buf.String(), err
}

// formatPrice renders whole dollars with thousands separators, e.g. $12,500.
func formatPrice(p int64) string {
	s := fmt.Sprintf("%d", p)
	neg := false
	if p < 0 {
		neg, s = true, s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-$" + s
	}
	return "$" + s
}
