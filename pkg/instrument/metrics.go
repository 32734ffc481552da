// Package instrument exposes Prometheus metrics for notification traffic:
// how many before/after notifications an entity delivered, how many
// structural list events fired, and how many listeners failed.
package instrument

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/notifly-dev/notifly/pkg/notify"
	"github.com/notifly-dev/notifly/pkg/obslist"
)

// Config configures the metrics collector.
type Config struct {
	// Namespace is the metrics namespace (default: "notifly").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64
}

// Option configures the metrics collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithBuckets sets the dispatch duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "notifly",
		Registry:  prometheus.DefaultRegisterer,
		Buckets:   prometheus.DefBuckets,
	}
}

// Collector counts notification traffic. Create one per registry.
type Collector struct {
	notifications    *prometheus.CounterVec
	structuralEvents *prometheus.CounterVec
	dispatchSeconds  *prometheus.HistogramVec
	listenerFailures prometheus.Counter
}

// New creates a collector and registers its metrics.
func New(opts ...Option) *Collector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Collector{
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "notifications_total",
			Help:        "Change notifications delivered, by member name and timing.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"member", "timing"}),
		structuralEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "structural_events_total",
			Help:        "Structural list events delivered, by action.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"action"}),
		dispatchSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "dispatch_seconds",
			Help:        "Duration of a member's before/after notification window.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"member"}),
		listenerFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "listener_failures_total",
			Help:        "Listener failures reported through aggregate errors.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// Observe attaches counting listeners to an observable entity and returns
// their handles so the caller can detach later. The elapsed time between a
// member's before and after notification is recorded in the dispatch
// duration histogram.
func (c *Collector) Observe(n notify.Observable) (before, after notify.Handle) {
	var starts sync.Map // member name -> time.Time
	before = n.AttachChanging(func(_ any, change notify.Change) {
		starts.Store(change.Name, time.Now())
		c.notifications.WithLabelValues(change.Name, change.Timing.String()).Inc()
	})
	after = n.AttachChanged(func(_ any, change notify.Change) {
		c.notifications.WithLabelValues(change.Name, change.Timing.String()).Inc()
		if v, ok := starts.LoadAndDelete(change.Name); ok {
			c.dispatchSeconds.WithLabelValues(change.Name).Observe(time.Since(v.(time.Time)).Seconds())
		}
	})
	return before, after
}

// CountFailures records the listener failures carried by err, which is
// typically the return of a Set or list mutation. Nil and non-aggregate
// errors count nothing.
func (c *Collector) CountFailures(err error) {
	var agg *notify.AggregateError
	if errors.As(err, &agg) {
		c.listenerFailures.Add(float64(len(agg.Errors)))
	}
}

// ObserveList attaches a counting structural listener to a list and returns
// its handle.
func ObserveList[T any](c *Collector, l *obslist.List[T]) notify.Handle {
	return l.AttachListChanged(func(_ any, ev obslist.Event[T]) {
		c.structuralEvents.WithLabelValues(ev.Action.String()).Inc()
	})
}
