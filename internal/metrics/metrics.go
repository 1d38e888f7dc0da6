// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Gateway operation metrics, labeled by operation kind
	IncOperationRequest(kind string)
	IncOperationCompleted(kind string)
	IncOperationFailed(kind string)
	IncValidationRejected(kind string)
	ObserveDownstreamDuration(kind string, duration time.Duration)

	// Audit trail metrics; stage is "request" or "response"
	IncAuditWriteFailure(stage string)

	// History metrics
	IncHistoryFetched()
	IncHistoryCleared()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
