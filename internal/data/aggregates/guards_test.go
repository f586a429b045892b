package aggregates

import (
	"context"
	"testing"

	"github.com/google/uuid"

	repotestutil "github.com/yungbote/jobtrail-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireCASSuccess(false, "stale"); err == nil {
		t.Fatalf("expected conflict error")
	}
	if !domainagg.IsCode(MapError("op", RequireCASSuccess(false, "stale")), domainagg.CodeConflict) {
		t.Fatalf("expected conflict code")
	}
}

func TestRequireOwned(t *testing.T) {
	var missing *tracker.Application
	if _, err := RequireOwned(missing, "application not found"); !domainagg.IsCode(MapError("op", err), domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got=%v", err)
	}
	app := &tracker.Application{}
	got, err := RequireOwned(app, "x")
	if err != nil || got != app {
		t.Fatalf("RequireOwned present: err=%v", err)
	}
}

func TestCASGuardUpdateByVersion(t *testing.T) {
	db := repotestutil.DB(t)
	tx := repotestutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	guard := NewCASGuard(db)

	u := repotestutil.SeedUser(t, ctx, tx, "cas@example.com")
	s := repotestutil.SeedStreak(t, ctx, tx, u.ID)

	ok, err := guard.UpdateByVersion(dbc, "streak", s.ID, 0, map[string]any{"total_points": 10})
	if err != nil || !ok {
		t.Fatalf("first CAS: ok=%v err=%v", ok, err)
	}
	ok, err = guard.UpdateByVersion(dbc, "streak", s.ID, 0, map[string]any{"total_points": 20})
	if err != nil || ok {
		t.Fatalf("stale CAS: ok=%v err=%v", ok, err)
	}

	var got tracker.Streak
	if err := tx.First(&got, "id = ?", s.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Version != 1 || got.TotalPoints != 10 {
		t.Fatalf("after CAS: version=%d points=%d", got.Version, got.TotalPoints)
	}

	if _, err := guard.UpdateByVersion(dbc, "streak", uuid.Nil, 0, nil); err == nil {
		t.Fatalf("expected validation error for nil id")
	}
}
