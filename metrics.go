package flatmenu

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the proxy's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	notifications *prometheus.CounterVec
	ignored       *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	cacheClears   prometheus.Counter
	count         prometheus.Gauge
	resolveDepth  prometheus.Histogram
}

// NewMetrics creates the proxy collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "flatmenu_notifications_total",
			Help: "Flat structural notifications emitted to listeners, by kind",
		}, []string{"kind"}),
		ignored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "flatmenu_ignored_source_notifications_total",
			Help: "Source notifications not acted on (disconnected parent, bad range, detached proxy), by kind",
		}, []string{"kind"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "flatmenu_path_cache_lookups_total",
			Help: "Flat index lookups by path cache result",
		}, []string{"result"}),
		cacheClears: f.NewCounter(prometheus.CounterOpts{
			Name: "flatmenu_path_cache_clears_total",
			Help: "Times the path cache was invalidated",
		}),
		count: f.NewGauge(prometheus.GaugeOpts{
			Name: "flatmenu_flat_count",
			Help: "Current number of flat rows",
		}),
		resolveDepth: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "flatmenu_resolve_depth",
			Help:    "Depth of the dotted path produced by a flat index resolution",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16},
		}),
	}
}

func (m *Metrics) notified(kind ChangeKind) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) ignoredNotification(kind string) {
	if m == nil {
		return
	}
	m.ignored.WithLabelValues(kind).Inc()
}

func (m *Metrics) cacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) cacheCleared() {
	if m == nil {
		return
	}
	m.cacheClears.Inc()
}

func (m *Metrics) setCount(n int) {
	if m == nil {
		return
	}
	m.count.Set(float64(n))
}

func (m *Metrics) resolved(depth int) {
	if m == nil {
		return
	}
	m.resolveDepth.Observe(float64(depth))
}
