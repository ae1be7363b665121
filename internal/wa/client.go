// Package wa sends outbound messages through the WhatsApp Cloud API.
package wa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fuelbot/internal/metrics"
)

// Client posts text messages to the Graph API messages endpoint.
type Client struct {
	logger        *slog.Logger
	baseURL       string
	token         string
	phoneNumberID string
	http          *http.Client
	metrics       *metrics.Metrics
}

// Config holds Cloud API settings.
type Config struct {
	BaseURL       string
	Token         string
	PhoneNumberID string
	Timeout       time.Duration
}

// New creates a Cloud API client.
func New(cfg Config, logger *slog.Logger, metrics *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://graph.facebook.com/v19.0"
	}
	return &Client{
		logger:        logger.With("component", "whatsapp"),
		baseURL:       base,
		token:         cfg.Token,
		phoneNumberID: cfg.PhoneNumberID,
		http:          &http.Client{Timeout: timeout},
		metrics:       metrics,
	}
}

type sendPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// SendText delivers a text reply to the given sender identifier. The Cloud
// API wants the recipient in "+"-prefixed form.
func (c *Client) SendText(ctx context.Context, to, text string) error {
	if !strings.HasPrefix(to, "+") {
		to = "+" + to
	}

	payload := sendPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Text:             textBody{Body: text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send payload: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.WASendRequests.WithLabelValues("error").Inc()
		}
		return fmt.Errorf("whatsapp send: %w", err)
	}
	defer res.Body.Close()

	if c.metrics != nil {
		c.metrics.WASendRequests.WithLabelValues(fmt.Sprintf("%d", res.StatusCode)).Inc()
	}

	if res.StatusCode >= 400 {
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("whatsapp send failed: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(resBody)))
	}

	c.logger.Debug("message sent", "to", to)
	return nil
}
