// Package server exposes the WhatsApp webhook endpoints, health check and
// prometheus metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MessageHandler processes one inbound text message end to end.
type MessageHandler interface {
	HandleMessage(ctx context.Context, sender, text string) error
}

// Config holds server settings.
type Config struct {
	ListenAddr  string
	VerifyToken string
}

// Server hosts the webhook HTTP surface.
type Server struct {
	cfg        Config
	handler    MessageHandler
	logger     *slog.Logger
	httpServer *http.Server
}

// New builds the server and its router.
func New(cfg Config, handler MessageHandler, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger.With("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/webhook", s.verifyWebhook)
	r.Post("/webhook", s.incomingMessage)

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router; used by httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.cfg.ListenAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// verifyWebhook answers the Cloud API subscription handshake: echo the
// challenge when the mode and token match, reject otherwise.
func (s *Server) verifyWebhook(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == s.cfg.VerifyToken {
		s.logger.Info("webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	s.logger.Warn("webhook verification failed", "mode", mode)
	http.Error(w, "verification failed", http.StatusForbidden)
}

// webhookEnvelope mirrors the two fields of the Cloud API delivery payload
// the bot needs; everything else is ignored on purpose.
type webhookEnvelope struct {
	Entry []webhookEntry `json:"entry"`
}

type webhookEntry struct {
	Changes []webhookChange `json:"changes"`
}

type webhookChange struct {
	Value webhookValue `json:"value"`
}

type webhookValue struct {
	Messages []webhookMessage  `json:"messages"`
	Statuses []json.RawMessage `json:"statuses"`
}

type webhookMessage struct {
	From string       `json:"from"`
	Text *webhookText `json:"text"`
}

type webhookText struct {
	Body string `json:"body"`
}

// incomingMessage handles a webhook delivery. Deliveries without a usable
// text message (status updates, system events, malformed payloads) are
// acknowledged and dropped; processing faults are logged but still
// acknowledged so the platform does not pile up redeliveries.
func (s *Server) incomingMessage(w http.ResponseWriter, r *http.Request) {
	ack := func() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}

	var envelope webhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		s.logger.Warn("undecodable webhook payload", "error", err)
		ack()
		return
	}

	sender, text, ok := extractMessage(envelope)
	if !ok {
		ack()
		return
	}

	s.logger.Info("message received", "sender", sender)
	if err := s.handler.HandleMessage(r.Context(), sender, text); err != nil {
		s.logger.Error("message handling failed", "sender", sender, "error", err)
	}
	ack()
}

// extractMessage digs out the sender and text body of the first message in
// the envelope. Status-only events and empty envelopes yield ok=false.
func extractMessage(envelope webhookEnvelope) (sender, text string, ok bool) {
	if len(envelope.Entry) == 0 || len(envelope.Entry[0].Changes) == 0 {
		return "", "", false
	}
	value := envelope.Entry[0].Changes[0].Value
	if len(value.Statuses) > 0 || len(value.Messages) == 0 {
		return "", "", false
	}
	msg := value.Messages[0]
	if msg.From == "" || msg.Text == nil || msg.Text.Body == "" {
		return "", "", false
	}
	return msg.From, msg.Text.Body, true
}
