package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// ClientCred obtains bearer tokens from the fleet authority's token endpoint
// using the client-credentials grant. Tokens are cached until expiry. Safe
// for concurrent use; reservation attempts may run in parallel.
type ClientCred struct {
	mu    sync.Mutex
	cc    ccTokenFunc
	token *oauth2.Token
}

type ccTokenFunc func(ctx context.Context) (*oauth2.Token, error)

// NewClientCred creates a credential source from the configuration.
func NewClientCred(conf Conf) *ClientCred {
	cfg := conf.toOauth2Config()
	return &ClientCred{cc: cfg.Token}
}

// Token returns a valid access token, requesting a new one from the endpoint
// when the cached token is missing or expired.
func (c *ClientCred) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != nil && c.token.Valid() {
		return c.token.AccessToken, nil
	}
	if err := c.refresh(ctx); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

// ForceRefresh discards the cached token and requests a new one.
func (c *ClientCred) ForceRefresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.refresh(ctx); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

// SetAuthHeader places a valid bearer token on the request.
func (c *ClientCred) SetAuthHeader(ctx context.Context, r *http.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == nil || !c.token.Valid() {
		if err := c.refresh(ctx); err != nil {
			return err
		}
	}
	c.token.SetAuthHeader(r)
	return nil
}

func (c *ClientCred) refresh(ctx context.Context) error {
	tok, err := c.cc(ctx)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	c.token = tok
	return nil
}
