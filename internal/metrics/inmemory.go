package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	OperationRequests       map[string]uint64 `json:"operation_requests"`
	OperationsCompleted     map[string]uint64 `json:"operations_completed"`
	OperationsFailed        map[string]uint64 `json:"operations_failed"`
	ValidationsRejected     map[string]uint64 `json:"validations_rejected"`
	DownstreamCallCount     map[string]uint64 `json:"downstream_call_count"`
	DownstreamTotalNs       map[string]int64  `json:"downstream_total_ns"`
	AuditWriteFailures      map[string]uint64 `json:"audit_write_failures"`
	HistoriesFetched        uint64            `json:"histories_fetched"`
	HistoriesCleared        uint64            `json:"histories_cleared"`
}

// InMemoryRecorder stores metrics in memory, for tests and the /metrics
// snapshot endpoint.
type InMemoryRecorder struct {
	mu                  sync.Mutex
	operationRequests   map[string]uint64
	operationsCompleted map[string]uint64
	operationsFailed    map[string]uint64
	validationsRejected map[string]uint64
	downstreamCallCount map[string]uint64
	downstreamTotalNs   map[string]int64
	auditWriteFailures  map[string]uint64
	historiesFetched    uint64
	historiesCleared    uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		operationRequests:   make(map[string]uint64),
		operationsCompleted: make(map[string]uint64),
		operationsFailed:    make(map[string]uint64),
		validationsRejected: make(map[string]uint64),
		downstreamCallCount: make(map[string]uint64),
		downstreamTotalNs:   make(map[string]int64),
		auditWriteFailures:  make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		OperationRequests:   copyCounters(m.operationRequests),
		OperationsCompleted: copyCounters(m.operationsCompleted),
		OperationsFailed:    copyCounters(m.operationsFailed),
		ValidationsRejected: copyCounters(m.validationsRejected),
		DownstreamCallCount: copyCounters(m.downstreamCallCount),
		DownstreamTotalNs:   copyInts(m.downstreamTotalNs),
		AuditWriteFailures:  copyCounters(m.auditWriteFailures),
		HistoriesFetched:    m.historiesFetched,
		HistoriesCleared:    m.historiesCleared,
	}
}

// IncOperationRequest increments the inbound request counter for kind.
func (m *InMemoryRecorder) IncOperationRequest(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operationRequests[kind]++
}

// IncOperationCompleted increments the success counter for kind.
func (m *InMemoryRecorder) IncOperationCompleted(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operationsCompleted[kind]++
}

// IncOperationFailed increments the failure counter for kind.
func (m *InMemoryRecorder) IncOperationFailed(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operationsFailed[kind]++
}

// IncValidationRejected increments the validation rejection counter for kind.
func (m *InMemoryRecorder) IncValidationRejected(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationsRejected[kind]++
}

// ObserveDownstreamDuration records one downstream round trip for kind.
func (m *InMemoryRecorder) ObserveDownstreamDuration(kind string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downstreamCallCount[kind]++
	m.downstreamTotalNs[kind] += duration.Nanoseconds()
}

// IncAuditWriteFailure increments the audit write failure counter for stage.
func (m *InMemoryRecorder) IncAuditWriteFailure(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditWriteFailures[stage]++
}

// IncHistoryFetched increments the history fetch counter.
func (m *InMemoryRecorder) IncHistoryFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historiesFetched++
}

// IncHistoryCleared increments the history clear counter.
func (m *InMemoryRecorder) IncHistoryCleared() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historiesCleared++
}

func copyCounters(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyInts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
