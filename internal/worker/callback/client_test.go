package callback

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := c.Send(context.Background(), "media-1", "ready")
	require.NoError(t, err)

	assert.Equal(t, "secret-token", gotAuth)
	assert.Equal(t, "media-1", gotBody["media_id"])
	assert.Equal(t, "ready", gotBody["status"])
}

func TestSend_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"unknown media", http.StatusNotFound, ErrMediaNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "secret-token", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

			err := c.Send(context.Background(), "media-1", "error")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSend_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := c.Send(context.Background(), "media-1", "ready")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrMediaNotFound)
	assert.Contains(t, err.Error(), "500")
}

func TestSend_ConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/callback", "secret-token", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := c.Send(context.Background(), "media-1", "ready")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to deliver callback")
}
