package brevo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.brevo.com/v3"

// Sender defines the interface for sending transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a single transactional email.
type Message struct {
	ToEmail     string
	ToName      string
	Subject     string
	HTMLContent string
	TextContent string
}

// Config holds provider credentials and sender identity.
type Config struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
}

type client struct {
	http *resty.Client
	cfg  Config
}

// NewClient creates a Brevo transactional-email client.
func NewClient(cfg Config) Sender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &client{http: httpClient, cfg: cfg}
}

type sendRequest struct {
	Sender      participant   `json:"sender"`
	To          []participant `json:"to"`
	Subject     string        `json:"subject"`
	HTMLContent string        `json:"htmlContent"`
	TextContent string        `json:"textContent,omitempty"`
}

type participant struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

// Send delivers one email via the transactional endpoint. The plain-text part
// is derived from the HTML when not supplied.
func (c *client) Send(ctx context.Context, msg Message) error {
	text := msg.TextContent
	if text == "" {
		text = stripTags(msg.HTMLContent)
	}

	req := sendRequest{
		Sender:      participant{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
		To:          []participant{{Email: msg.ToEmail, Name: msg.ToName}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLContent,
		TextContent: text,
	}

	var out sendResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/smtp/email")
	if err != nil {
		return fmt.Errorf("send email to %s: %w", msg.ToEmail, err)
	}
	if resp.IsError() {
		return fmt.Errorf("send email to %s: status %d: %s", msg.ToEmail, resp.StatusCode(), resp.String())
	}
	return nil
}

var tagPattern = regexp.MustCompile(`<[^<]+?>`)
var spacePattern = regexp.MustCompile(`\s+`)

func stripTags(html string) string {
	plain := tagPattern.ReplaceAllString(html, "")
	return strings.TrimSpace(spacePattern.ReplaceAllString(plain, " "))
}
