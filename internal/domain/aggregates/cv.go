package aggregates

import (
	"context"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

var CvAggregateContract = Contract{
	Name:             "Cv.CvAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyTableRepoQueries,
	Notes:            "Persists scored CV analyses after checking application ownership.",
}

type CvAggregate interface {
	Aggregate

	RecordAnalysis(ctx context.Context, a *tracker.CvAnalysis) error
}
