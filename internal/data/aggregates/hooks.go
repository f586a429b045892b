package aggregates

import (
	"time"

	"github.com/yungbote/jobtrail-backend/internal/observability"
)

// Hooks receives the signals every aggregate write emits: the operation
// outcome, how long the per-user lock took, and conflict or retry counts.
type Hooks interface {
	ObserveOperation(op, status string, dur time.Duration)
	ObserveLockWait(op string, dur time.Duration)
	IncConflict(op string)
	IncRetry(op string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) ObserveLockWait(string, time.Duration)          {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

// metricsHooks forwards to Metrics, whose methods are nil-safe.
type metricsHooks struct{ m *observability.Metrics }

func NewObservabilityHooks(m *observability.Metrics) Hooks {
	if m == nil {
		return noopHooks{}
	}
	return metricsHooks{m: m}
}

func (h metricsHooks) ObserveOperation(op, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(op, status, dur)
}

func (h metricsHooks) ObserveLockWait(op string, dur time.Duration) {
	h.m.ObserveUserLockWait(op, dur)
}

func (h metricsHooks) IncConflict(op string) { h.m.IncAggregateConflict(op) }
func (h metricsHooks) IncRetry(op string)    { h.m.IncAggregateRetry(op) }
