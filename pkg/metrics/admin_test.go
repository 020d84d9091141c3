package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAdminMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAdminMetrics(reg)

	m.ObserveMutation("add_supplier")
	m.ObserveMutation("add_supplier")
	m.AddReconcileDrops(3)
	m.SetQueueDepth(2)

	if got := testutil.ToFloat64(m.mutations.WithLabelValues("add_supplier")); got != 2 {
		t.Fatalf("expected 2 add_supplier mutations, got %v", got)
	}
	if got := testutil.ToFloat64(m.reconcileDrops); got != 3 {
		t.Fatalf("expected 3 reconcile drops, got %v", got)
	}
	if got := testutil.ToFloat64(m.queueDepth); got != 2 {
		t.Fatalf("expected queue depth 2, got %v", got)
	}
}

func TestAdminMetricsNilSafe(t *testing.T) {
	var m *AdminMetrics
	m.ObserveMutation("noop")
	m.AddReconcileDrops(1)
	m.SetQueueDepth(1)

	unregistered := NewAdminMetrics(nil)
	unregistered.ObserveMutation("noop")
	unregistered.AddReconcileDrops(1)
	unregistered.SetQueueDepth(1)
}
