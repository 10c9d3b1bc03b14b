package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vet-backoffice/internal/platform/httpclient"
	"vet-backoffice/internal/ports/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender_Send(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer k-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s, err := New(Config{BaseURL: srv.URL, APIKey: "k-123", From: "clinica@example.com"})
	require.NoError(t, err)

	err = s.Send(context.Background(), email.Message{To: "ana@example.com", Subject: "Recordatorio", Body: "Hola Ana"})
	require.NoError(t, err)
	assert.Equal(t, sendRequest{From: "clinica@example.com", To: "ana@example.com", Subject: "Recordatorio", Text: "Hola Ana"}, got)
}

func TestSender_CustomHeaderAndFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k-123", r.Header.Get("X-Api-Key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	s, err := New(Config{BaseURL: srv.URL, APIKey: "k-123", APIKeyHeader: "X-Api-Key"})
	require.NoError(t, err)

	err = s.Send(context.Background(), email.Message{To: "ana@example.com"})
	var se *httpclient.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.StatusCode)
}

func TestNew_NotConfigured(t *testing.T) {
	_, err := New(Config{BaseURL: "http://mail.local"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
