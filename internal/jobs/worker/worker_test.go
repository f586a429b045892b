package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/data/repos"
	repotest "github.com/yungbote/jobtrail-backend/internal/data/repos/testutil"
	domainjobs "github.com/yungbote/jobtrail-backend/internal/domain/jobs"
	"github.com/yungbote/jobtrail-backend/internal/jobs/runtime"
	"github.com/yungbote/jobtrail-backend/internal/observability"
	"github.com/yungbote/jobtrail-backend/internal/platform/clock"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

type funcHandler struct {
	typ   string
	calls atomic.Int32
	run   func(jc *runtime.Context) error
}

func (h *funcHandler) Type() string { return h.typ }

func (h *funcHandler) Run(jc *runtime.Context) error {
	h.calls.Add(1)
	if h.run == nil {
		return nil
	}
	return h.run(jc)
}

type fixture struct {
	ctx  context.Context
	db   *gorm.DB
	repo repos.JobRunRepo
	clk  *clock.Fixed
	user uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.FreshDB(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, db, "worker@example.com")
	return &fixture{
		ctx:  ctx,
		db:   db,
		repo: repos.NewJobRunRepo(db, repotest.Logger(t)),
		clk:  clock.NewFixed(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		user: u.ID,
	}
}

func (f *fixture) enqueue(t *testing.T, jobType string) uuid.UUID {
	t.Helper()
	jobs, err := f.repo.Create(dbctx.Context{Ctx: f.ctx}, []*domainjobs.JobRun{{
		OwnerUserID: f.user,
		JobType:     jobType,
		RunAfter:    f.clk.Now(),
	}})
	require.NoError(t, err)
	return jobs[0].ID
}

func (f *fixture) get(t *testing.T, id uuid.UUID) *domainjobs.JobRun {
	t.Helper()
	rows, err := f.repo.GetByIDs(dbctx.Context{Ctx: f.ctx}, []uuid.UUID{id})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	return rows[0]
}

func (f *fixture) worker(t *testing.T, handlers ...runtime.Handler) *Worker {
	t.Helper()
	reg := runtime.NewRegistry()
	for _, h := range handlers {
		require.NoError(t, reg.Register(h))
	}
	return NewWorker(f.db, repotest.Logger(t), f.repo, reg, observability.New(), f.clk, Config{
		Concurrency:  2,
		PollInterval: 10 * time.Millisecond,
		RetryBase:    time.Minute,
		RetryMax:     10 * time.Minute,
	})
}

func TestRunOnce_Succeeds(t *testing.T) {
	f := newFixture(t)
	h := &funcHandler{typ: "ok"}
	w := f.worker(t, h)
	id := f.enqueue(t, "ok")

	ran, err := w.RunOnce(f.ctx)
	require.NoError(t, err)
	require.True(t, ran)
	require.EqualValues(t, 1, h.calls.Load())
	require.Equal(t, domainjobs.StatusSucceeded, f.get(t, id).Status)

	ran, err = w.RunOnce(f.ctx)
	require.NoError(t, err)
	require.False(t, ran)
}

func TestRunOnce_FailureSchedulesRetryWithBackoff(t *testing.T) {
	f := newFixture(t)
	h := &funcHandler{typ: "flaky", run: func(*runtime.Context) error { return errors.New("smtp down") }}
	w := f.worker(t, h)
	id := f.enqueue(t, "flaky")

	ran, err := w.RunOnce(f.ctx)
	require.NoError(t, err)
	require.True(t, ran)
	job := f.get(t, id)
	require.Equal(t, domainjobs.StatusFailed, job.Status)
	require.Equal(t, 1, job.Attempts)
	require.Contains(t, job.Error, "smtp down")
	require.True(t, job.RunAfter.Equal(f.clk.Now().Add(time.Minute)), "run_after=%v", job.RunAfter)

	ran, err = w.RunOnce(f.ctx)
	require.NoError(t, err)
	require.False(t, ran, "retry must wait for run_after")

	f.clk.Advance(time.Minute)
	ran, err = w.RunOnce(f.ctx)
	require.NoError(t, err)
	require.True(t, ran)
	job = f.get(t, id)
	require.Equal(t, 2, job.Attempts)
	require.True(t, job.RunAfter.Equal(f.clk.Now().Add(2*time.Minute)), "run_after=%v", job.RunAfter)
}

func TestRunOnce_PanicAndMissingHandlerFail(t *testing.T) {
	f := newFixture(t)
	h := &funcHandler{typ: "boom", run: func(*runtime.Context) error { panic("nil map") }}
	w := f.worker(t, h)
	boom := f.enqueue(t, "boom")
	orphan := f.enqueue(t, "nobody_handles_this")

	for i := 0; i < 2; i++ {
		ran, err := w.RunOnce(f.ctx)
		require.NoError(t, err)
		require.True(t, ran)
	}
	require.Equal(t, domainjobs.StatusFailed, f.get(t, boom).Status)
	require.Contains(t, f.get(t, boom).Error, "panic: nil map")
	require.Equal(t, domainjobs.StatusFailed, f.get(t, orphan).Status)
	require.Contains(t, f.get(t, orphan).Error, "no handler registered")
}

func TestRun_DrainsAndStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	h := &funcHandler{typ: "ok"}
	w := f.worker(t, h)
	ids := []uuid.UUID{f.enqueue(t, "ok"), f.enqueue(t, "ok"), f.enqueue(t, "ok")}

	ctx, cancel := context.WithCancel(f.ctx)
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		for _, id := range ids {
			if f.get(t, id).Status != domainjobs.StatusSucceeded {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("worker did not stop after cancel")
	}
	require.EqualValues(t, 3, h.calls.Load())
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	w := &Worker{cfg: Config{RetryBase: time.Second, RetryMax: 5 * time.Second}.withDefaults()}
	want := []time.Duration{time.Second, time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for attempts, d := range want {
		if got := w.backoff(attempts); got != d {
			t.Fatalf("backoff(%d): want=%v got=%v", attempts, d, got)
		}
	}
}
