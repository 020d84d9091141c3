package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AdminMetrics records admin mutation activity and queue pressure.
type AdminMetrics struct {
	mutations      *prometheus.CounterVec
	reconcileDrops prometheus.Counter
	queueDepth     prometheus.Gauge
}

// NewAdminMetrics registers the admin metrics on the provided registerer.
func NewAdminMetrics(reg prometheus.Registerer) *AdminMetrics {
	if reg == nil {
		return &AdminMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_mutations_total",
		Help: "Admin mutation operations applied to the supplier directory.",
	}, []string{"operation"})
	reconcileDrops := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "queue_reconcile_drops_total",
		Help: "Queue entries removed by reconciliation passes.",
	})
	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "verification_queue_depth",
		Help: "Outstanding verification queue entries.",
	})
	reg.MustRegister(mutations, reconcileDrops, queueDepth)
	return &AdminMetrics{
		mutations:      mutations,
		reconcileDrops: reconcileDrops,
		queueDepth:     queueDepth,
	}
}

func (m *AdminMetrics) ObserveMutation(operation string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(operation).Inc()
}

func (m *AdminMetrics) AddReconcileDrops(n int) {
	if m == nil || m.reconcileDrops == nil || n <= 0 {
		return
	}
	m.reconcileDrops.Add(float64(n))
}

func (m *AdminMetrics) SetQueueDepth(n int) {
	if m == nil || m.queueDepth == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
