package databrickshttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_Issue_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/2.0/database/credentials", r.URL.Path)
		require.Equal(t, "Bearer pat", r.Header.Get("Authorization"))

		var body credentialRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "req-1", body.RequestID)
		require.Equal(t, []string{"inst-1"}, body.InstanceNames)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"oauth-abc","expiration_time":"2026-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "pat")
	tok, err := c.Issue(context.Background(), "req-1", "inst-1")
	require.NoError(t, err)
	require.Equal(t, "oauth-abc", tok)
}

func TestClient_Issue_httpError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "pat")
	_, err := c.Issue(context.Background(), "req-1", "inst-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}

func TestClient_Issue_emptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "pat")
	_, err := c.Issue(context.Background(), "req-1", "inst-1")
	require.Error(t, err)
}
