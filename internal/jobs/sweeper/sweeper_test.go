package sweeper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/jobtrail-backend/internal/data/repos"
	repotest "github.com/yungbote/jobtrail-backend/internal/data/repos/testutil"
	domainjobs "github.com/yungbote/jobtrail-backend/internal/domain/jobs"
)

func TestSweep_EnqueuesOncePerUser(t *testing.T) {
	db := repotest.FreshDB(t)
	log := repotest.Logger(t)
	set := repos.NewSet(db, log)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		repotest.SeedUser(t, ctx, db, fmt.Sprintf("sweep%d@example.com", i))
	}
	s := New(log, set.Users, set.JobRuns, 2, 2)
	now := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)

	n, err := s.Sweep(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	n, err = s.Sweep(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n, "pending sweeps are not duplicated")

	var count int64
	require.NoError(t, db.Model(&domainjobs.JobRun{}).Where("job_type = ?", domainjobs.TypeReminderSweep).Count(&count).Error)
	require.EqualValues(t, 5, count)
}
