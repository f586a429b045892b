package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/platform/clock"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/locks"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

const defaultLockTimeout = 10 * time.Second

type BaseDeps struct {
	DB          *gorm.DB
	Log         *logger.Logger
	Runner      TxRunner
	Hooks       Hooks
	CASGuard    CASGuard
	Locker      locks.Locker
	LockTimeout time.Duration
	Clock       clock.Clock
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Locker == nil {
		d.Locker = locks.NewKeyed()
	}
	if d.LockTimeout <= 0 {
		d.LockTimeout = defaultLockTimeout
	}
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)
	observe(deps, op, mapped, start)
	return mapped
}

// executeUserWrite runs fn in one transaction while holding the per-user
// lock, so derived counters for one user never interleave.
func executeUserWrite(ctx context.Context, deps BaseDeps, op, userKey string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()

	lockCtx, cancel := context.WithTimeout(ctx, deps.LockTimeout)
	unlock, err := deps.Locker.Lock(lockCtx, "user:"+userKey)
	cancel()
	deps.Hooks.ObserveLockWait(op, time.Since(start))
	if err != nil {
		mapped := MapError(op, fmt.Errorf("per-user lock: %w", err))
		observe(deps, op, mapped, start)
		return mapped
	}
	defer unlock()

	err = deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)
	observe(deps, op, mapped, start)
	return mapped
}

func observe(deps BaseDeps, op string, mapped error, start time.Time) {
	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
