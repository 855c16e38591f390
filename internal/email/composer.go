// Package email renders the HTML bodies for every outbound message. Data
// flows in as plain structs so the mailer and the API triggers share one
// set of templates.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"tradetracker/internal/api/dto"
	"tradetracker/pkg/brevo"
)

//go:embed templates/*.html
var templateFS embed.FS

// Composer renders email messages from the embedded templates.
type Composer struct {
	templates *template.Template
}

// NewComposer parses the embedded templates. Failure is a programming error
// surfaced at startup.
func NewComposer() (*Composer, error) {
	tmpl, err := template.New("email").Funcs(template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
		"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Composer{templates: tmpl}, nil
}

func (c *Composer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := c.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Welcome builds the one-time onboarding message.
func (c *Composer) Welcome(toEmail, userName string) (brevo.Message, error) {
	html, err := c.render("welcome.html", map[string]any{"UserName": displayName(userName)})
	if err != nil {
		return brevo.Message{}, err
	}
	return brevo.Message{
		ToEmail:     toEmail,
		ToName:      userName,
		Subject:     "Welcome to TradeTracker",
		HTMLContent: html,
	}, nil
}

// TradeReminder builds the inactivity nudge.
func (c *Composer) TradeReminder(toEmail, userName string, daysInactive int) (brevo.Message, error) {
	html, err := c.render("reminder.html", map[string]any{
		"UserName":     displayName(userName),
		"DaysInactive": daysInactive,
	})
	if err != nil {
		return brevo.Message{}, err
	}
	return brevo.Message{
		ToEmail:     toEmail,
		ToName:      userName,
		Subject:     "Your trading journal misses you",
		HTMLContent: html,
	}, nil
}

// WeeklySummary builds the weekly performance recap.
func (c *Composer) WeeklySummary(toEmail, userName string, summary *dto.WeeklySummary) (brevo.Message, error) {
	html, err := c.render("weekly_summary.html", map[string]any{
		"UserName": displayName(userName),
		"Summary":  summary,
	})
	if err != nil {
		return brevo.Message{}, err
	}
	return brevo.Message{
		ToEmail:     toEmail,
		ToName:      userName,
		Subject:     fmt.Sprintf("Your weekly trading summary (%s - %s)", summary.WeekStart, summary.WeekEnd),
		HTMLContent: html,
	}, nil
}

// Update builds a product announcement.
func (c *Composer) Update(toEmail, userName, subject, headline, body string) (brevo.Message, error) {
	html, err := c.render("update.html", map[string]any{
		"UserName": displayName(userName),
		"Headline": headline,
		"Body":     body,
	})
	if err != nil {
		return brevo.Message{}, err
	}
	return brevo.Message{
		ToEmail:     toEmail,
		ToName:      userName,
		Subject:     subject,
		HTMLContent: html,
	}, nil
}

func displayName(name string) string {
	if name == "" {
		return "Trader"
	}
	return name
}
