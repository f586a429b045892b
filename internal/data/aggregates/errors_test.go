package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/modules/progress/streak"
	"github.com/yungbote/jobtrail-backend/internal/platform/locks"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_DomainValidation(t *testing.T) {
	for name, in := range map[string]error{
		"invalid entity": &tracker.InvalidError{Entity: "application", Field: "status", Reason: "unknown"},
		"backdated":      fmt.Errorf("record: %w", streak.ErrBackdated),
	} {
		err := MapError("op", in)
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("%s: expected validation code, got %q (%v)", name, domainagg.CodeOf(err), err)
		}
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
	err = MapError("op", NotFoundError("application not owned"))
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_PgCodes(t *testing.T) {
	cases := map[string]domainagg.ErrorCode{
		"23505": domainagg.CodeConflict,
		"23503": domainagg.CodeNotFound,
		"23514": domainagg.CodeValidation,
		"40001": domainagg.CodeRetryable,
		"40P01": domainagg.CodeRetryable,
	}
	for code, want := range cases {
		err := MapError("op", &pgconn.PgError{Code: code, Message: "x"})
		if got := domainagg.CodeOf(err); got != want {
			t.Fatalf("pg %s: want=%s got=%s", code, want, got)
		}
	}
}

func TestMapError_SQLiteMessages(t *testing.T) {
	cases := map[string]domainagg.ErrorCode{
		"UNIQUE constraint failed: notification.user_id, notification.dedup_key": domainagg.CodeConflict,
		"FOREIGN KEY constraint failed":                                          domainagg.CodeNotFound,
		"database is locked":                                                     domainagg.CodeRetryable,
		"disk I/O error":                                                         domainagg.CodeStorage,
	}
	for msg, want := range cases {
		if got := domainagg.CodeOf(MapError("op", errors.New(msg))); got != want {
			t.Fatalf("%q: want=%s got=%s", msg, want, got)
		}
	}
}

func TestMapError_LockAndContext(t *testing.T) {
	for _, in := range []error{
		fmt.Errorf("per-user lock: %w", locks.ErrNotAcquired),
		context.DeadlineExceeded,
	} {
		if got := domainagg.CodeOf(MapError("op", in)); got != domainagg.CodeRetryable {
			t.Fatalf("%v: want=retryable got=%s", in, got)
		}
	}
}
