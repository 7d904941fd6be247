package jsonbind

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments a Binding. Create once per registry and share.
type Metrics struct {
	documents     *prometheus.CounterVec
	bytes         *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	issues        *prometheus.CounterVec
	dynamicFields prometheus.Counter
	skipped       prometheus.Counter
}

// NewMetrics registers the codec metrics with reg (nil uses a throwaway
// registry).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		documents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jsonbind",
			Name:      "documents_total",
			Help:      "Documents processed, by operation and outcome.",
		}, []string{"op", "outcome"}),
		bytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jsonbind",
			Name:      "bytes_total",
			Help:      "Bytes read or written.",
		}, []string{"op"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jsonbind",
			Name:      "duration_seconds",
			Help:      "Time spent per document.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
		issues: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jsonbind",
			Name:      "issues_total",
			Help:      "Failures by issue code.",
		}, []string{"code"}),
		dynamicFields: f.NewCounter(prometheus.CounterOpts{
			Namespace: "jsonbind",
			Name:      "dynamic_fields_total",
			Help:      "Fields synthesized while parsing.",
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "jsonbind",
			Name:      "window_skipped_elements_total",
			Help:      "Array elements read but not kept because of a window.",
		}),
	}
}

func (m *Metrics) observe(op string, start time.Time, n int64, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if iss, ok := AsIssues(err); ok {
			for _, it := range iss {
				m.issues.WithLabelValues(it.Code).Inc()
			}
		}
	}
	m.documents.WithLabelValues(op, outcome).Inc()
	m.bytes.WithLabelValues(op).Add(float64(n))
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) dynamicField() {
	if m != nil {
		m.dynamicFields.Inc()
	}
}

func (m *Metrics) skippedElement() {
	if m != nil {
		m.skipped.Inc()
	}
}
