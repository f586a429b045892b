package cv

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/jobtrail-backend/internal/data/repos/jobsearch"
	"github.com/yungbote/jobtrail-backend/internal/data/repos/testutil"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

func TestCvAnalysisSurvivesApplicationDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCvAnalysisRepo(db, testutil.Logger(t))
	apps := jobsearch.NewApplicationRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "cvrepo@example.com")
	c := testutil.SeedCompany(t, ctx, tx, u.ID, "CV Co")
	app := testutil.SeedApplication(t, ctx, tx, u.ID, c.ID, "Data Engineer")

	a := &tracker.CvAnalysis{
		UserID:          u.ID,
		ApplicationID:   &app.ID,
		JobDescription:  strings.Repeat("python sql docker kubernetes ", 3),
		ATSScore:        50,
		MatchedKeywords: []string{"python", "sql"},
		MissingKeywords: []string{"docker", "kubernetes"},
		Suggestions:     []tracker.Suggestion{{Keyword: "docker", Priority: tracker.PriorityHigh, Text: "mention docker"}},
	}
	if err := repo.Create(dbc, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.APIUsed != tracker.ScorerInternal {
		t.Fatalf("APIUsed default: want=%s got=%s", tracker.ScorerInternal, a.APIUsed)
	}

	byApp, err := repo.ListByApplication(dbc, u.ID, app.ID)
	if err != nil || len(byApp) != 1 {
		t.Fatalf("ListByApplication: err=%v len=%d", err, len(byApp))
	}

	if err := apps.Delete(dbc, u.ID, app.ID); err != nil {
		t.Fatalf("Delete application: %v", err)
	}
	got, err := repo.GetOwned(dbc, u.ID, a.ID)
	if err != nil || got == nil {
		t.Fatalf("GetOwned after delete: err=%v got=%v", err, got)
	}
	if got.ApplicationID != nil {
		t.Fatalf("application_id: want=nil got=%v", *got.ApplicationID)
	}
	if len(got.MatchedKeywords) != 2 || got.Suggestions[0].Priority != tracker.PriorityHigh {
		t.Fatalf("json columns not round-tripped: %+v", got)
	}
}

func TestCvAnalysisValidation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCvAnalysisRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "cvvalid@example.com")

	err := repo.Create(dbc, &tracker.CvAnalysis{UserID: u.ID, JobDescription: "too short", ATSScore: 10})
	if !tracker.IsInvalid(err) {
		t.Fatalf("short job description: want invalid got=%v", err)
	}
	err = repo.Create(dbc, &tracker.CvAnalysis{UserID: u.ID, JobDescription: strings.Repeat("x", 60), ATSScore: 101})
	if !tracker.IsInvalid(err) {
		t.Fatalf("score out of range: want invalid got=%v", err)
	}
}
