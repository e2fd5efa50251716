// Package metrics owns the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Events      *prometheus.CounterVec
	Messages    *prometheus.CounterVec
	Connections prometheus.Gauge
	gatherer    prometheus.Gatherer
}

// New registers the chat collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gochat",
			Name:      "events_total",
			Help:      "Delivery events by type and outcome (delivered, relayed, dropped).",
		}, []string{"type", "outcome"}),
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gochat",
			Name:      "messages_total",
			Help:      "Message store mutations by operation.",
		}, []string{"op"}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gochat",
			Name:      "live_connections",
			Help:      "Websocket connections currently registered on this instance.",
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.Events, m.Messages, m.Connections)
	return m
}

func (m *Metrics) Event(eventType, outcome string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(eventType, outcome).Inc()
}

func (m *Metrics) Message(op string) {
	if m == nil {
		return
	}
	m.Messages.WithLabelValues(op).Inc()
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.Connections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.Connections.Dec()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
