package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNotifySendsEnvelope(t *testing.T) {
	var received envelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, zerolog.Nop())
	require.True(t, n.Enabled())

	err := n.Notify(context.Background(), EventTaskCreated, TaskNotification{
		ID:     42,
		Title:  "Entrega informe",
		TeamID: 7,
		Status: "pending",
	})
	require.NoError(t, err)

	require.Equal(t, EventTaskCreated, received.Event)
	require.NotEmpty(t, received.Timestamp)
	require.Equal(t, int64(42), received.Data.ID)
	require.Equal(t, int64(7), received.Data.TeamID)
}

func TestNotifyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, zerolog.Nop())
	err := n.Notify(context.Background(), EventTaskUpdated, TaskNotification{ID: 1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestNotifierDisabledWhenNoURL(t *testing.T) {
	n := NewNotifier("", zerolog.Nop())
	require.False(t, n.Enabled())
	require.NoError(t, n.Notify(context.Background(), EventTaskCreated, TaskNotification{}))
}
