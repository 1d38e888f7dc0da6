package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/textgate/textgate/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeKindCounters(w, "textgate_operation_requests_total", snap.OperationRequests)
	writeKindCounters(w, "textgate_operations_completed_total", snap.OperationsCompleted)
	writeKindCounters(w, "textgate_operations_failed_total", snap.OperationsFailed)
	writeKindCounters(w, "textgate_validations_rejected_total", snap.ValidationsRejected)
	writeKindCounters(w, "textgate_downstream_calls_total", snap.DownstreamCallCount)

	for _, kind := range sortedKeys(snap.DownstreamTotalNs) {
		writeMetric(w, "textgate_downstream_duration_seconds_sum{operation=%q} %.6f\n",
			kind, float64(snap.DownstreamTotalNs[kind])/1e9)
	}

	for _, stage := range sortedKeys(snap.AuditWriteFailures) {
		writeMetric(w, "textgate_audit_write_failures_total{stage=%q} %d\n",
			stage, snap.AuditWriteFailures[stage])
	}

	writeMetric(w, "textgate_histories_fetched_total %d\n", snap.HistoriesFetched)
	writeMetric(w, "textgate_histories_cleared_total %d\n", snap.HistoriesCleared)
}

func writeKindCounters(w http.ResponseWriter, name string, counters map[string]uint64) {
	for _, kind := range sortedKeys(counters) {
		writeMetric(w, "%s{operation=%q} %d\n", name, kind, counters[kind])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
