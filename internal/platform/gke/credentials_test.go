package gke

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCredentials(t *testing.T) {
	t.Parallel()

	creds := StaticCredentials("abc123")
	assert.Equal(t, "abc123", creds.Token())
	assert.False(t, creds.Refreshable())
	require.Error(t, creds.Refresh(context.Background()))
}

func TestCredentials_RefreshFromMetadata(t *testing.T) {
	t.Parallel()

	tokens := []string{"first", "second"}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Google", r.Header.Get("Metadata-Flavor"))
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": tokens[0],
			"expires_in":   3600,
			"token_type":   "Bearer",
		})
		if len(tokens) > 1 {
			tokens = tokens[1:]
		}
	}))
	t.Cleanup(server.Close)

	creds := &Credentials{
		refreshable: true,
		client:      &http.Client{Timeout: time.Second},
		tokenURL:    server.URL,
	}

	require.NoError(t, creds.Refresh(context.Background()))
	assert.Equal(t, "first", creds.Token())

	require.NoError(t, creds.Refresh(context.Background()))
	assert.Equal(t, "second", creds.Token())
}

func TestCredentials_MetadataServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no service account", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	creds := &Credentials{
		refreshable: true,
		client:      &http.Client{Timeout: time.Second},
		tokenURL:    server.URL,
	}
	require.Error(t, creds.Refresh(context.Background()))
}
