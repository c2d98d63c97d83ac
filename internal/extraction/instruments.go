package extraction

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "metaeval"
	metricsSubsystem = "extraction"
)

// Instruments are the Prometheus collectors updated per extracted document.
type Instruments struct {
	documents *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewInstruments creates the collectors and registers them with reg.
func NewInstruments(reg prometheus.Registerer) *Instruments {
	i := &Instruments{
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "documents_total",
				Help:      "Documents processed by an extraction backend, by outcome.",
			},
			[]string{"backend", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "duration_seconds",
				Help:      "Time spent extracting a single document.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"backend"},
		),
	}
	reg.MustRegister(i.documents, i.duration)
	return i
}

func (i *Instruments) observe(backend string, r Result) {
	if i == nil {
		return
	}
	status := "success"
	if !r.OK() {
		status = "failure"
	}
	i.documents.WithLabelValues(backend, status).Inc()
	i.duration.WithLabelValues(backend).Observe(r.Duration.Seconds())
}
