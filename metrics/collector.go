package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kbukum/storekit/store"
)

const namespace = "storekit"

var _ store.Hooks = (*Collector)(nil)

// Collector exposes store activity as Prometheus metrics. It implements
// store.Hooks, so it can be passed straight to a provider. A nil
// *Collector discards everything.
type Collector struct {
	dispatches   *prometheus.CounterVec
	notifies     prometheus.Counter
	subscribers  prometheus.Gauge
	signals      prometheus.Counter
	watchClients prometheus.Gauge
}

// NewCollector registers the store metrics with reg, which defaults to
// prometheus.DefaultRegisterer. Metrics already registered on reg by an
// earlier call are reused.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	dispatches, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_dispatches_total",
		Help:      "Number of state replacements by action type.",
	}, []string{"action"}))
	if err != nil {
		return nil, err
	}
	notifies, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_notifies_total",
		Help:      "Number of broadcast passes.",
	}))
	if err != nil {
		return nil, err
	}
	subscribers, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_subscribers",
		Help:      "Subscribers reached by the last broadcast pass.",
	}))
	if err != nil {
		return nil, err
	}
	signals, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_selection_signals_total",
		Help:      "Number of change signals delivered to selections.",
	}))
	if err != nil {
		return nil, err
	}
	watchClients, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "watch_clients",
		Help:      "Connected watch stream clients.",
	}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		dispatches:   dispatches,
		notifies:     notifies,
		subscribers:  subscribers,
		signals:      signals,
		watchClients: watchClients,
	}, nil
}

// register adds c to reg, or returns the collector registered earlier under
// the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

func (c *Collector) Dispatched(actionType string) {
	if c == nil {
		return
	}
	if actionType == "" {
		actionType = "init"
	}
	c.dispatches.WithLabelValues(actionType).Inc()
}

func (c *Collector) Notified(subscribers int) {
	if c == nil {
		return
	}
	c.notifies.Inc()
	c.subscribers.Set(float64(subscribers))
}

func (c *Collector) Signaled() {
	if c == nil {
		return
	}
	c.signals.Inc()
}

// SetWatchClients records the number of open watch streams.
func (c *Collector) SetWatchClients(n int) {
	if c == nil {
		return
	}
	c.watchClients.Set(float64(n))
}

// Handler serves the metrics gathered by g in the Prometheus text format.
// A nil g serves prometheus.DefaultGatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
