package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncOperationRequest is a no-op.
func (n *NoopRecorder) IncOperationRequest(kind string) {}

// IncOperationCompleted is a no-op.
func (n *NoopRecorder) IncOperationCompleted(kind string) {}

// IncOperationFailed is a no-op.
func (n *NoopRecorder) IncOperationFailed(kind string) {}

// IncValidationRejected is a no-op.
func (n *NoopRecorder) IncValidationRejected(kind string) {}

// ObserveDownstreamDuration is a no-op.
func (n *NoopRecorder) ObserveDownstreamDuration(kind string, duration time.Duration) {}

// IncAuditWriteFailure is a no-op.
func (n *NoopRecorder) IncAuditWriteFailure(stage string) {}

// IncHistoryFetched is a no-op.
func (n *NoopRecorder) IncHistoryFetched() {}

// IncHistoryCleared is a no-op.
func (n *NoopRecorder) IncHistoryCleared() {}
