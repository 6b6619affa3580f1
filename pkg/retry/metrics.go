package retry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects counters about retry configuration resolution
type Metrics struct {
	FieldsResolved     *prometheus.CounterVec
	OperationsResolved prometheus.Counter
	OverridesIgnored   prometheus.Counter
}

// NewMetrics creates the resolver metrics and registers them when reg is non-nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FieldsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "assetsettings",
				Subsystem: "retry",
				Name:      "fields_resolved_total",
				Help:      "Resolved retry policy fields by the configuration tier that supplied them",
			},
			[]string{"tier"},
		),
		OperationsResolved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "assetsettings",
				Subsystem: "retry",
				Name:      "operations_resolved_total",
				Help:      "Operations whose effective retry policy was resolved",
			},
		),
		OverridesIgnored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "assetsettings",
				Subsystem: "retry",
				Name:      "overrides_ignored_total",
				Help:      "Retry overrides that named no known operation",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.FieldsResolved, m.OperationsResolved, m.OverridesIgnored)
	}

	return m
}

func (m *Metrics) observe(p Provenance) {
	m.OperationsResolved.Inc()
	for _, tier := range []Tier{TierDefault, TierService, TierOperation} {
		if n := p.Count(tier); n > 0 {
			m.FieldsResolved.WithLabelValues(tier.String()).Add(float64(n))
		}
	}
}
