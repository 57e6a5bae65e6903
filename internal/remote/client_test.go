package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, cookie string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/", SessionCookie: cookie, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestPreviousAttempt_SendsCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/user/cbt/previous/42", r.URL.Path)
		cookie, err := r.Cookie("SESSION")
		if assert.NoError(t, err) {
			assert.Equal(t, "abc", cookie.Value)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"score":80}`))
	}, "SESSION=abc")

	prev, err := c.PreviousAttempt(context.Background(), 42)
	require.NoError(t, err)

	var got struct {
		ID    int `json:"id"`
		Score int `json:"score"`
	}
	require.NoError(t, prev.Decode(&got))
	assert.Equal(t, 42, got.ID)
	assert.Equal(t, 80, got.Score)
}

func TestPreviousAttempt_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}, "")

	_, err := c.PreviousAttempt(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Contains(t, err.Error(), "404")
}

func TestSubmitAttempt_Body(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/user/cbt/add", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "7", body["certificate_id"])
		assert.EqualValues(t, 85, body["score"])
		assert.EqualValues(t, 17, body["correct_Count"])
		assert.EqualValues(t, 120, body["left_time"])

		w.Write([]byte(`{"success":true}`))
	}, "")

	ack, err := c.SubmitAttempt(context.Background(), Submission{CertificateID: "7", Score: 85, CorrectCount: 17, LeftTime: 120})
	require.NoError(t, err)

	var got struct {
		Success bool `json:"success"`
	}
	require.NoError(t, ack.Decode(&got))
	assert.True(t, got.Success)
}

func TestSubmitAttempt_StatusNotInspected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"failed"}`))
	}, "")

	ack, err := c.SubmitAttempt(context.Background(), Submission{CertificateID: "1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"failed"}`, string(ack.Body))
}

func TestSubmitAttempt_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}, "")

	_, err := c.SubmitAttempt(context.Background(), Submission{})
	assert.Error(t, err)
}

func TestSubmitAttempt_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.SubmitAttempt(context.Background(), Submission{})
	assert.Error(t, err)
}

func TestPreviousAttempt_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.PreviousAttempt(ctx, 1)
	assert.Error(t, err)
}

func TestLoggingTransport(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Logger: logger})
	require.NoError(t, err)
	_, err = c.PreviousAttempt(context.Background(), 9)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, `"path":"/api/user/cbt/previous/9"`), out)
	assert.Contains(t, out, `"status":200`)
}
