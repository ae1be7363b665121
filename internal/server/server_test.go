package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	sender string
	text   string
	calls  int
	err    error
}

func (h *recordingHandler) HandleMessage(_ context.Context, sender, text string) error {
	h.calls++
	h.sender = sender
	h.text = text
	return h.err
}

func newTestServer(handler MessageHandler) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{ListenAddr: ":0", VerifyToken: "secret-token"}, handler, logger)
}

func verifyURL(mode, token, challenge string) string {
	q := url.Values{}
	q.Set("hub.mode", mode)
	q.Set("hub.verify_token", token)
	q.Set("hub.challenge", challenge)
	return "/webhook?" + q.Encode()
}

func TestVerifyWebhook(t *testing.T) {
	srv := newTestServer(&recordingHandler{})

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantBody   string
	}{
		{"valid handshake", verifyURL("subscribe", "secret-token", "1158201444"), http.StatusOK, "1158201444"},
		{"wrong token", verifyURL("subscribe", "guess", "1158201444"), http.StatusForbidden, "verification failed"},
		{"wrong mode", verifyURL("unsubscribe", "secret-token", "1158201444"), http.StatusForbidden, "verification failed"},
		{"missing params", "/webhook", http.StatusForbidden, "verification failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			require.Equal(t, tt.wantStatus, rec.Code)
			require.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

const textMessagePayload = `{
  "entry": [{
    "changes": [{
      "value": {
        "messages": [{
          "from": "923001234567",
          "text": {"body": "Today petrol price?"}
        }]
      }
    }]
  }]
}`

const statusOnlyPayload = `{
  "entry": [{
    "changes": [{
      "value": {
        "statuses": [{"id": "wamid.x", "status": "delivered"}]
      }
    }]
  }]
}`

func postWebhook(srv *Server, payload string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIncomingTextMessage(t *testing.T) {
	handler := &recordingHandler{}
	srv := newTestServer(handler)

	rec := postWebhook(srv, textMessagePayload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.Equal(t, 1, handler.calls)
	require.Equal(t, "923001234567", handler.sender)
	require.Equal(t, "Today petrol price?", handler.text)
}

func TestStatusUpdateIgnored(t *testing.T) {
	handler := &recordingHandler{}
	srv := newTestServer(handler)

	rec := postWebhook(srv, statusOnlyPayload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, handler.calls)
}

func TestMalformedPayloadAcked(t *testing.T) {
	handler := &recordingHandler{}
	srv := newTestServer(handler)

	for _, payload := range []string{"not json", "{}", `{"entry": []}`, `{"entry": [{"changes": []}]}`} {
		rec := postWebhook(srv, payload)
		require.Equal(t, http.StatusOK, rec.Code, "payload %q", payload)
	}
	require.Zero(t, handler.calls)
}

func TestNonTextMessageIgnored(t *testing.T) {
	handler := &recordingHandler{}
	srv := newTestServer(handler)

	payload := `{"entry":[{"changes":[{"value":{"messages":[{"from":"923001234567","type":"image"}]}}]}]}`
	rec := postWebhook(srv, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, handler.calls)
}

func TestHandlerErrorStillAcked(t *testing.T) {
	handler := &recordingHandler{err: errors.New("send failed")}
	srv := newTestServer(handler)

	rec := postWebhook(srv, textMessagePayload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.Equal(t, 1, handler.calls)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&recordingHandler{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
