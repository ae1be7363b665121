package ogra

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fuelbot/internal/metrics"
	"fuelbot/internal/nlp"

	"golang.org/x/net/html"
)

// Notification is a published bulletin scraped from an OGRA page.
type Notification struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// source is one scrapable category page: its URL and the lowercase prefix a
// line must start with to count as a notification title.
type source struct {
	url    string
	prefix string
}

var defaultSources = map[nlp.Category]source{
	nlp.CategoryPetroleum: {
		url:    "https://www.ogra.org.pk/notified-petroleum-prices",
		prefix: "notification petroleum products prices",
	},
	nlp.CategoryE10: {
		url:    "https://www.ogra.org.pk/e-10-gasoline-prices",
		prefix: "e-10 gasoline price notification",
	},
	nlp.CategoryIFEM: {
		url:    "https://www.ogra.org.pk/ifem-notifications",
		prefix: "ifem notification effective dated",
	},
	nlp.CategoryExDepot: {
		url:    "https://www.ogra.org.pk/detail-computation-ex-depot-sale-price",
		prefix: "detail computation ex-depot sale price",
	},
	nlp.CategoryPriceBuildup: {
		url:    "https://www.ogra.org.pk/max-ex-depot-sale-price-price-buildup-period-wise",
		prefix: "max ex-depot sale price",
	},
}

// Scraper extracts notification titles from the OGRA category pages.
type Scraper struct {
	logger  *slog.Logger
	http    *http.Client
	metrics *metrics.Metrics
	sources map[nlp.Category]source
}

// ScraperConfig holds scraper settings.
type ScraperConfig struct {
	Timeout time.Duration
}

// NewScraper creates a scraper for the fixed OGRA category pages.
func NewScraper(cfg ScraperConfig, logger *slog.Logger, metrics *metrics.Metrics) *Scraper {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	sources := make(map[nlp.Category]source, len(defaultSources))
	for cat, src := range defaultSources {
		sources[cat] = src
	}
	return &Scraper{
		logger:  logger.With("component", "ogra_scraper"),
		http:    &http.Client{Timeout: timeout},
		metrics: metrics,
		sources: sources,
	}
}

// Notifications fetches the category page and returns up to limit bulletins
// whose titles carry the category's required prefix.
func (s *Scraper) Notifications(ctx context.Context, category nlp.Category, limit int) ([]Notification, error) {
	src, ok := s.sources[category]
	if !ok {
		return nil, fmt.Errorf("unknown notification category %q", category)
	}
	if limit <= 0 {
		limit = 50
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	start := time.Now()
	res, err := s.http.Do(req)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ScrapeRequests.WithLabelValues(string(category), "error").Inc()
		}
		return nil, fmt.Errorf("fetch %s: %w", src.url, err)
	}
	defer res.Body.Close()

	statusLabel := fmt.Sprintf("%d", res.StatusCode)
	if s.metrics != nil {
		s.metrics.ScrapeRequests.WithLabelValues(string(category), statusLabel).Inc()
		s.metrics.ScrapeLatency.WithLabelValues(string(category), statusLabel).Observe(time.Since(start).Seconds())
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: status=%d", src.url, res.StatusCode)
	}

	doc, err := html.Parse(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.url, err)
	}

	var results []Notification
	for _, line := range textLines(doc) {
		if strings.HasPrefix(strings.ToLower(line), src.prefix) {
			results = append(results, Notification{Title: line, Link: src.url})
		}
		if len(results) >= limit {
			break
		}
	}
	s.logger.Debug("scraped notifications", "category", category, "count", len(results))
	return results, nil
}

// textLines renders the document to trimmed, non-empty text lines, one per
// text node, skipping script and style content.
func textLines(doc *html.Node) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			for _, part := range strings.Split(n.Data, "\n") {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					lines = append(lines, trimmed)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return lines
}
