package engine_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-holisync/internal/config"
	"github.com/tartampluch/go-holisync/internal/engine"
)

// TestHTTPFetcher_Do_Success verifies headers, JSON body encoding and
// response body integrity.
func TestHTTPFetcher_Do_Success(t *testing.T) {
	expectedBody := `{"ok":true}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, config.UserAgent, r.Header.Get("User-Agent"), "User-Agent mismatch")
		assert.Equal(t, config.MimeJSON, r.Header.Get("Content-Type"))
		assert.Equal(t, "Token abc", r.Header.Get("Authorization"))

		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "TRUE", payload["predicate"])

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(expectedBody))
	}))
	defer ts.Close()

	fetcher := engine.NewHTTPFetcher()
	rc, err := fetcher.Do(context.Background(), engine.Request{
		Method: http.MethodPatch,
		URL:    ts.URL,
		Header: http.Header{"Authorization": []string{"Token abc"}},
		Body:   map[string]string{"predicate": "TRUE"},
	})

	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, expectedBody, string(body))
}

// TestHTTPFetcher_Do_Errors verifies proper error handling for non-2xx statuses.
func TestHTTPFetcher_Do_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "404"},
		{"ServerError", http.StatusInternalServerError, "500"},
		{"Unauthorized", http.StatusUnauthorized, "401"},
		{"Redirect", http.StatusNotModified, "304"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			fetcher := engine.NewHTTPFetcher()
			rc, err := fetcher.Do(context.Background(), engine.Request{Method: http.MethodGet, URL: ts.URL})

			assert.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestHTTPFetcher_Do_SizeLimit ensures oversized payloads are truncated.
func TestHTTPFetcher_Do_SizeLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer ts.Close()

	fetcher := engine.NewHTTPFetcher()
	fetcher.MaxBytes = 4

	rc, err := fetcher.Do(context.Background(), engine.Request{Method: http.MethodGet, URL: ts.URL})
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(body))
}

// TestHTTPFetcher_Do_Timeout ensures the client respects context deadlines.
func TestHTTPFetcher_Do_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	fetcher := engine.NewHTTPFetcher()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fetcher.Do(ctx, engine.Request{Method: http.MethodGet, URL: ts.URL})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "Should return context deadline exceeded error")
}

// TestHTTPFetcher_Do_InvalidURL ensures malformed URLs are caught early.
func TestHTTPFetcher_Do_InvalidURL(t *testing.T) {
	fetcher := engine.NewHTTPFetcher()

	_, err := fetcher.Do(context.Background(), engine.Request{Method: http.MethodGet, URL: string([]byte{0x7f})})

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidURL)
}

// TestHTTPFetcher_Do_ProtocolSecurity enforces HTTP/HTTPS only.
func TestHTTPFetcher_Do_ProtocolSecurity(t *testing.T) {
	fetcher := engine.NewHTTPFetcher()

	_, err := fetcher.Do(context.Background(), engine.Request{Method: http.MethodGet, URL: "ftp://example.com/holidays.json"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)
}
