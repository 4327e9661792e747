package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// DefaultBuckets en segundos para histogramas de latencia.
var DefaultBuckets = []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1}

const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Pricing agrupa las métricas de cotizaciones.
type Pricing struct {
	quotes   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewPricing(reg prometheus.Registerer) *Pricing {
	m := &Pricing{
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricing",
			Name:      "quotes_total",
			Help:      "Quotes computed, by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pricing",
			Name:      "quote_duration_seconds",
			Help:      "Time spent computing a quote, including data loading.",
			Buckets:   DefaultBuckets,
		}, []string{"strategy"}),
	}
	if reg != nil {
		reg.MustRegister(m.quotes, m.duration)
	}
	return m
}

func (m *Pricing) Observe(strategy, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(strategy, outcome).Inc()
	m.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// NewRegistry crea un registry con los collectors de proceso y runtime.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
