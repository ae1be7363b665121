package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the prometheus collectors used across the bot.
type Metrics struct {
	IncomingMessages *prometheus.CounterVec
	RepliesSent      *prometheus.CounterVec
	OGRARequests     *prometheus.CounterVec
	OGRALatency      *prometheus.HistogramVec
	ScrapeRequests   *prometheus.CounterVec
	ScrapeLatency    *prometheus.HistogramVec
	WASendRequests   *prometheus.CounterVec
	Errors           *prometheus.CounterVec
}

// New registers and returns the metric set under the given namespace.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		IncomingMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incoming_messages_total",
			Help:      "Inbound webhook messages by classified intent.",
		}, []string{"intent"}),
		RepliesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_sent_total",
			Help:      "Outbound replies by reply kind.",
		}, []string{"kind"}),
		OGRARequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ogra_api_requests_total",
			Help:      "Price API requests by endpoint and status.",
		}, []string{"endpoint", "status"}),
		OGRALatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ogra_api_latency_seconds",
			Help:      "Price API request latency by endpoint and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "status"}),
		ScrapeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrape_requests_total",
			Help:      "Notification page scrapes by category and status.",
		}, []string{"category", "status"}),
		ScrapeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_latency_seconds",
			Help:      "Notification page scrape latency by category and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"category", "status"}),
		WASendRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "whatsapp_send_requests_total",
			Help:      "WhatsApp Cloud API send attempts by status.",
		}, []string{"status"}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Internal errors by processing stage.",
		}, []string{"stage"}),
	}
}
