package gke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	metadataTokenURL = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"
	metadataFlavor   = "Google"
)

// Credentials holds the bearer token used against both the control plane
// and cluster endpoints. Tokens fetched from the instance metadata server
// can be refreshed when a call comes back 401; externally supplied tokens
// cannot.
type Credentials struct {
	mu          sync.Mutex
	token       string
	refreshable bool
	client      *http.Client
	tokenURL    string
}

// StaticCredentials wraps an externally supplied bearer token. It is not
// refreshable: a 401 with these credentials is fatal.
func StaticCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

// CredentialsOption configures MetadataCredentials.
type CredentialsOption func(*Credentials)

// WithTokenURL overrides the metadata token endpoint, for environments
// that run a metadata emulator.
func WithTokenURL(url string) CredentialsOption {
	return func(c *Credentials) { c.tokenURL = url }
}

// MetadataCredentials fetches a token from the GCE instance metadata server
// and marks the credentials refreshable.
func MetadataCredentials(ctx context.Context, opts ...CredentialsOption) (*Credentials, error) {
	c := &Credentials{
		refreshable: true,
		client:      &http.Client{Timeout: 10 * time.Second},
		tokenURL:    metadataTokenURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Token returns the current bearer token.
func (c *Credentials) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Refreshable reports whether Refresh can obtain a fresh token.
func (c *Credentials) Refreshable() bool {
	return c.refreshable
}

// Refresh replaces the token with a fresh one from the metadata server.
// Calling Refresh on non-refreshable credentials is an error.
func (c *Credentials) Refresh(ctx context.Context) error {
	if !c.refreshable {
		return fmt.Errorf("credentials are not refreshable")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tokenURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build metadata request: %w", err)
	}
	req.Header.Set("Metadata-Flavor", metadataFlavor)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach metadata server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metadata server returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode metadata token response: %w", err)
	}
	if body.AccessToken == "" {
		return fmt.Errorf("metadata server returned an empty token")
	}

	c.mu.Lock()
	c.token = body.AccessToken
	c.mu.Unlock()
	return nil
}
