package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestNewAction_Defaults(t *testing.T) {
	action, err := NewAction(map[string]any{"url": "http://example.com/hook"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, action.Method)
	assert.Equal(t, 1, action.Retry.Attempts)
}

func TestNewAction_MissingURL(t *testing.T) {
	_, err := NewAction(map[string]any{})
	assert.ErrorIs(t, err, ErrWebhookURLMissing)
}

func TestNewAction_MapBodyMarshalled(t *testing.T) {
	action, err := NewAction(map[string]any{
		"url":  "http://example.com/hook",
		"body": map[string]any{"itemId": "I1", "stock": 5},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(action.Body), &decoded))
	assert.Equal(t, "I1", decoded["itemId"])
}

func TestExecute_PostsBodyAndReturnsResponse(t *testing.T) {
	var receivedBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	action, err := NewAction(map[string]any{
		"url":  server.URL,
		"body": `{"hello":"world"}`,
	})
	require.NoError(t, err)

	output, err := action.Execute(context.Background(), testLogger())
	require.NoError(t, err)

	assert.JSONEq(t, `{"hello":"world"}`, string(receivedBody))

	result, ok := output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, result["status_code"])
	assert.Equal(t, map[string]any{"ok": true}, result["body"])
}

func TestExecute_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	action, err := NewAction(map[string]any{
		"url":   server.URL,
		"retry": map[string]any{"attempts": 2.0, "delay": 0.0},
	})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), testLogger())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestExecute_CancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	action, err := NewAction(map[string]any{
		"url":   server.URL,
		"retry": map[string]any{"attempts": 3.0, "delay": 5.0},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = action.Execute(ctx, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// Cancellation interrupts the backoff instead of sleeping out the full delay.
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExecute_ClientErrorFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	action, err := NewAction(map[string]any{"url": server.URL})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), testLogger())
	assert.ErrorIs(t, err, ErrWebhookFailed)
}
