package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
)

// Identity is the resolved owner of a bearer credential.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Verifier resolves a bearer token to a user identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Config holds verifier settings.
type Config struct {
	TokenInfoURL string
	CacheTTL     time.Duration
}

type httpVerifier struct {
	client *resty.Client
	url    string
	cache  *gocache.Cache
}

// NewHTTPVerifier creates a Verifier that calls an identity provider's
// token-info endpoint. Verified identities are cached so repeated requests
// with the same token skip the round trip.
func NewHTTPVerifier(cfg Config) Verifier {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &httpVerifier{
		client: resty.New().SetTimeout(10 * time.Second),
		url:    cfg.TokenInfoURL,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

func (v *httpVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	if cached, ok := v.cache.Get(token); ok {
		return cached.(*Identity), nil
	}

	var identity Identity
	resp, err := v.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&identity).
		Get(v.url)
	if err != nil {
		return nil, fmt.Errorf("token verification request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("token rejected: status %d", resp.StatusCode())
	}
	if identity.UserID == "" {
		return nil, fmt.Errorf("token info response missing user id")
	}

	v.cache.SetDefault(token, &identity)
	return &identity, nil
}

// StaticVerifier maps fixed tokens to identities. Used in tests and local
// development where no identity provider is running.
type StaticVerifier struct {
	Tokens map[string]*Identity
}

func (v *StaticVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if id, ok := v.Tokens[strings.TrimSpace(token)]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("unknown token")
}
