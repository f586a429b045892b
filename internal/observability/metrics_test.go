package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.IncAggregateConflict("op")
	m.IncCvScorer("internal")
	m.ObserveUserLockWait("op", time.Millisecond)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil WritePrometheus: %v", err)
	}
}

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.ObserveAggregateOperation("progress.submit_event", "success", 20*time.Millisecond)
	m.ObserveAggregateOperation("progress.submit_event", "success", 30*time.Millisecond)
	m.IncAggregateConflict("progress.submit_event")
	m.ObserveJobRun("notification_email", "succeeded", time.Second)
	m.IncCvScorer("internal")
	m.ObserveUserLockWait("progress.submit_event", 2*time.Millisecond)

	if got := m.aggregateOps.Value("progress.submit_event", "success"); got != 2 {
		t.Fatalf("aggregate ops: want=2 got=%v", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`jt_aggregate_operations_total{op="progress.submit_event",status="success"} 2.000000`,
		`jt_user_lock_wait_seconds_count{op="progress.submit_event"} 1`,
		`jt_aggregate_operation_duration_seconds_bucket{op="progress.submit_event",le="0.025"} 1`,
		`jt_aggregate_operation_duration_seconds_count{op="progress.submit_event"} 2`,
		`jt_aggregate_conflicts_total{op="progress.submit_event"} 1.000000`,
		`jt_job_runs_total{job_type="notification_email",status="succeeded"} 1.000000`,
		`jt_cv_scorer_total{path="internal"} 1.000000`,
		"# TYPE jt_job_queue_depth gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a"}, []string{"x\"y\n"})
	if got != `{a="x\"y\n"}` {
		t.Fatalf("labelString: got=%s", got)
	}
	if got := withLe("", "+Inf"); got != `{le="+Inf"}` {
		t.Fatalf("withLe empty: got=%s", got)
	}
}
