package aggregates

import (
	"context"

	"github.com/yungbote/jobtrail-backend/internal/data/repos"
	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

type CvAggregateDeps struct {
	Base BaseDeps

	Applications repos.ApplicationRepo
	Analyses     repos.CvAnalysisRepo
}

type cvAggregate struct {
	deps CvAggregateDeps
}

func NewCvAggregate(deps CvAggregateDeps) domainagg.CvAggregate {
	deps.Base = deps.Base.withDefaults()
	return &cvAggregate{deps: deps}
}

func (a *cvAggregate) Contract() domainagg.Contract {
	return domainagg.CvAggregateContract
}

func (a *cvAggregate) RecordAnalysis(ctx context.Context, in *tracker.CvAnalysis) error {
	const op = "Cv.RecordAnalysis"
	if a.deps.Applications == nil || a.deps.Analyses == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "cv aggregate repos not configured", nil)
	}
	if err := tracker.ValidateCvAnalysis(in); err != nil {
		return MapError(op, err)
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if in.ApplicationID != nil {
			app, err := a.deps.Applications.GetOwned(dbc, in.UserID, *in.ApplicationID)
			if err != nil {
				return err
			}
			if _, err := RequireOwned(app, "application not found"); err != nil {
				return err
			}
		}
		return a.deps.Analyses.Create(dbc, in)
	})
}
