package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes forecast view activity as Prometheus collectors.
// It satisfies weather.Observer.
type Metrics struct {
	fetches       *prometheus.CounterVec
	adds          *prometheus.CounterVec
	notifications prometheus.Counter
	sessions      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast",
			Name:      "fetches_total",
			Help:      "Forecast list fetches by outcome.",
		}, []string{"outcome"}),
		adds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast",
			Name:      "adds_total",
			Help:      "Forecast add commands by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forecast",
			Name:      "list_updated_total",
			Help:      "Change notifications raised after a successful add.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forecast",
			Name:      "sessions",
			Help:      "Live view sessions.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.fetches, m.adds, m.notifications, m.sessions)
	}
	return m
}

func (m *Metrics) ObserveFetch(success bool) { m.fetches.WithLabelValues(outcome(success)).Inc() }
func (m *Metrics) ObserveAdd(success bool)   { m.adds.WithLabelValues(outcome(success)).Inc() }
func (m *Metrics) ObserveNotify()            { m.notifications.Inc() }

// SetSessions records the number of live sessions.
func (m *Metrics) SetSessions(n int) { m.sessions.Set(float64(n)) }

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
