// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "currency_converter"

// ConverterMetrics groups the collectors exported by the converter.
type ConverterMetrics struct {
	// Startup price fetch
	PriceFetchTotal    *prometheus.CounterVec
	PriceFetchDuration prometheus.Histogram
	PricesLoaded       prometheus.Gauge

	// Derivation
	ConversionsTotal *prometheus.CounterVec

	// Debounce
	DebounceSettledTotal prometheus.Counter
	DebounceDroppedTotal prometheus.Counter

	// Sessions
	ActiveSessions   prometheus.Gauge
	SessionsTotal    prometheus.Counter
	WSMessagesTotal  *prometheus.CounterVec
	WSDroppedUpdates prometheus.Counter
}

// NewConverterMetrics registers all collectors with reg.
func NewConverterMetrics(reg prometheus.Registerer) *ConverterMetrics {
	factory := promauto.With(reg)

	return &ConverterMetrics{
		PriceFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "price_fetch_total",
				Help:      "Price list fetches by outcome",
			},
			[]string{"outcome"},
		),
		PriceFetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "price_fetch_duration_seconds",
				Help:      "Duration of the price list fetch",
				Buckets:   prometheus.DefBuckets,
			},
		),
		PricesLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "prices_loaded",
				Help:      "Number of price entries held by the store",
			},
		),
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Derivations by resulting status",
			},
			[]string{"status"},
		),
		DebounceSettledTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "debounce_settled_total",
				Help:      "Amount inputs that settled and reached the derivation",
			},
		),
		DebounceDroppedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "debounce_dropped_total",
				Help:      "Intermediate amount inputs superseded before settling",
			},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Converter sessions currently open",
			},
		),
		SessionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_total",
				Help:      "Converter sessions opened",
			},
		),
		WSMessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_messages_total",
				Help:      "WebSocket messages received by type",
			},
			[]string{"type"},
		),
		WSDroppedUpdates: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_dropped_messages_total",
				Help:      "Outbound WebSocket messages dropped because the send buffer was full",
			},
		),
	}
}
