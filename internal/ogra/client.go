// Package ogra provides the two fuel-price data sources: the OGRA price
// REST API and the notification pages scraped from ogra.org.pk.
package ogra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"fuelbot/internal/cache"
	"fuelbot/internal/metrics"
)

// ErrNotConfigured indicates the price API base URL is unset.
var ErrNotConfigured = errors.New("ogra api base not configured")

// Client provides typed access to the OGRA fuel-price API.
type Client struct {
	logger   *slog.Logger
	baseURL  string
	http     *http.Client
	metrics  *metrics.Metrics
	cache    *cache.Redis
	priceTTL time.Duration
}

// Config holds price API client configuration.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	PriceTTL time.Duration
}

// NewClient creates a price API client. The cache is optional.
func NewClient(cfg Config, logger *slog.Logger, metrics *metrics.Metrics, redis *cache.Redis) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	priceTTL := cfg.PriceTTL
	if priceTTL <= 0 {
		priceTTL = 5 * time.Minute
	}
	return &Client{
		logger:   logger.With("component", "ogra_api"),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		metrics:  metrics,
		cache:    redis,
		priceTTL: priceTTL,
	}
}

// PriceRecord is one day's fuel prices. Fuels holds every numeric field of
// the API payload keyed by fuel name; Date and City are carried separately.
type PriceRecord struct {
	Date  string             `json:"date"`
	City  string             `json:"city,omitempty"`
	Fuels map[string]float64 `json:"fuels"`
}

// UnmarshalJSON accepts the API's flat shape, e.g.
// {"date":"2025-01-01","petrol":275.0,"diesel":289.5}.
func (p *PriceRecord) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	// Re-marshalled cache entries come back in the struct shape.
	if _, ok := raw["fuels"]; ok {
		type alias PriceRecord
		var a alias
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		*p = PriceRecord(a)
		return nil
	}
	p.Fuels = make(map[string]float64)
	for key, val := range raw {
		switch key {
		case "date":
			_ = json.Unmarshal(val, &p.Date)
		case "city":
			_ = json.Unmarshal(val, &p.City)
		default:
			var num float64
			if err := json.Unmarshal(val, &num); err == nil {
				p.Fuels[key] = num
			}
		}
	}
	return nil
}

// FuelNames returns the record's fuel keys with petrol, diesel and kerosene
// first and anything else alphabetical after them, so replies read stably.
func (p *PriceRecord) FuelNames() []string {
	preferred := []string{"petrol", "diesel", "kerosene"}
	names := make([]string, 0, len(p.Fuels))
	seen := make(map[string]bool, len(p.Fuels))
	for _, name := range preferred {
		if _, ok := p.Fuels[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0, len(p.Fuels))
	for name := range p.Fuels {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Today fetches the current national prices, served from cache when fresh.
func (c *Client) Today(ctx context.Context) (*PriceRecord, error) {
	return c.cachedRecord(ctx, "ogra:prices:today", "/today", nil)
}

// ByDate fetches prices for a specific day (YYYY-MM-DD).
func (c *Client) ByDate(ctx context.Context, date string) (*PriceRecord, error) {
	params := url.Values{}
	params.Set("date", date)
	return c.cachedRecord(ctx, "ogra:prices:date:"+date, "/by-date", params)
}

// City fetches today's prices for a specific city.
func (c *Client) City(ctx context.Context, city string) (*PriceRecord, error) {
	params := url.Values{}
	params.Set("city", city)
	return c.cachedRecord(ctx, "ogra:prices:city:"+strings.ToLower(city), "/city", params)
}

// History fetches prices for the last N days, most recent first.
func (c *Client) History(ctx context.Context, days int) ([]PriceRecord, error) {
	if days <= 0 {
		days = 7
	}
	params := url.Values{}
	params.Set("days", fmt.Sprintf("%d", days))
	var records []PriceRecord
	if err := c.get(ctx, "/history", params, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Trend fetches the per-fuel direction (up/down/stable).
func (c *Client) Trend(ctx context.Context) (map[string]string, error) {
	trend := make(map[string]string)
	if err := c.get(ctx, "/trend", nil, &trend); err != nil {
		return nil, err
	}
	return trend, nil
}

func (c *Client) cachedRecord(ctx context.Context, cacheKey, endpoint string, params url.Values) (*PriceRecord, error) {
	if c.cache != nil {
		var cached PriceRecord
		ok, err := c.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			c.logger.Warn("read price cache failed", "key", cacheKey, "error", err)
		} else if ok {
			return &cached, nil
		}
	}

	var record PriceRecord
	if err := c.get(ctx, endpoint, params, &record); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, cacheKey, &record, c.priceTTL); err != nil {
			c.logger.Warn("set price cache failed", "key", cacheKey, "error", err)
		}
	}
	return &record, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dest any) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.OGRARequests.WithLabelValues(endpoint, "error").Inc()
		}
		return fmt.Errorf("ogra request: %w", err)
	}
	defer res.Body.Close()

	duration := time.Since(start).Seconds()
	statusLabel := fmt.Sprintf("%d", res.StatusCode)
	if c.metrics != nil {
		c.metrics.OGRARequests.WithLabelValues(endpoint, statusLabel).Inc()
		c.metrics.OGRALatency.WithLabelValues(endpoint, statusLabel).Observe(duration)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("ogra %s error: status=%d body=%s", endpoint, res.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
