package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Turns           *prometheus.CounterVec
	OrdersConfirmed *prometheus.CounterVec
	OrdersCreated   *prometheus.CounterVec
	PersistFailures prometheus.Counter
	Unrecognized    prometheus.Counter
	TurnDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dialogue_turns_total",
				Help: "Dialogue turns handled, by transport and resulting step",
			},
			[]string{"transport", "step"},
		),
		OrdersConfirmed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_confirmed_total",
				Help: "Orders persisted, by channel",
			},
			[]string{"channel"},
		),
		OrdersCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Pending orders persisted, by channel",
			},
			[]string{"channel"},
		),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_persist_failures_total",
			Help: "Confirmed orders that could not be saved",
		}),
		Unrecognized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dialogue_unrecognized_items_total",
			Help: "Item phrases that matched nothing on the menu",
		}),
		TurnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dialogue_turn_duration_seconds",
				Help:    "Time spent handling one turn",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"transport"},
		),
	}

	reg.MustRegister(m.Turns, m.OrdersConfirmed, m.OrdersCreated, m.PersistFailures, m.Unrecognized, m.TurnDuration)
	return m
}

// ObserveTurn records one handled turn. Safe on a nil receiver.
func (m *Metrics) ObserveTurn(transport, step string, unrecognized int, took time.Duration) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(transport, step).Inc()
	m.TurnDuration.WithLabelValues(transport).Observe(took.Seconds())
	if unrecognized > 0 {
		m.Unrecognized.Add(float64(unrecognized))
	}
}

func (m *Metrics) OrderConfirmed(channel string) {
	if m == nil {
		return
	}
	m.OrdersConfirmed.WithLabelValues(channel).Inc()
}

func (m *Metrics) OrderCreated(channel string) {
	if m == nil {
		return
	}
	m.OrdersCreated.WithLabelValues(channel).Inc()
}

func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
