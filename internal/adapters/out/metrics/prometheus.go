// Package metrics records outbox and tracking activity in Prometheus.
package metrics

import (
	"errors"
	"time"

	"freight/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultDelivered    = "delivered"
	resultRetried      = "retried"
	resultDeadLettered = "dead_lettered"
)

// PromMetrics implements the outbox and tracking metric ports.
type PromMetrics struct {
	deliveries *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	tracking   *prometheus.CounterVec
}

var (
	_ ports.OutboxMetrics   = (*PromMetrics)(nil)
	_ ports.TrackingMetrics = (*PromMetrics)(nil)
)

// NewPromMetrics registers the collectors on reg. A nil registerer defaults to
// the global one. Collectors that are already registered are reused.
func NewPromMetrics(reg prometheus.Registerer) (*PromMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "freight_outbox_deliveries_total",
		Help: "Outbox delivery attempts by destination and result",
	}, []string{"destination", "result"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "freight_outbox_delivery_seconds",
		Help:    "Time spent delivering one outbox message to the sink",
		Buckets: prometheus.DefBuckets,
	}, []string{"destination", "result"})
	tracking := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "freight_tracking_checks_total",
		Help: "Tracking refresh results by carrier and outcome",
	}, []string{"carrier", "outcome"})

	var err error
	if deliveries, err = register(reg, deliveries); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}
	if tracking, err = register(reg, tracking); err != nil {
		return nil, err
	}

	return &PromMetrics{deliveries: deliveries, latency: latency, tracking: tracking}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *PromMetrics) Delivered(destination string, took time.Duration) {
	m.observe(destination, resultDelivered, took)
}

func (m *PromMetrics) Retried(destination string, took time.Duration) {
	m.observe(destination, resultRetried, took)
}

func (m *PromMetrics) DeadLettered(destination string, took time.Duration) {
	m.observe(destination, resultDeadLettered, took)
}

func (m *PromMetrics) TrackingChecked(carrier, outcome string) {
	m.tracking.WithLabelValues(carrier, outcome).Inc()
}

func (m *PromMetrics) observe(destination, result string, took time.Duration) {
	m.deliveries.WithLabelValues(destination, result).Inc()
	m.latency.WithLabelValues(destination, result).Observe(took.Seconds())
}
