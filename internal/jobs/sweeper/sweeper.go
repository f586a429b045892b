package sweeper

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/jobtrail-backend/internal/data/repos"
	domainjobs "github.com/yungbote/jobtrail-backend/internal/domain/jobs"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

// Sweeper enqueues one reminder_sweep job per user. A user with a queued or
// running sweep is skipped; the reminder pass dedupes on its own, so the
// check only keeps the queue short.
type Sweeper struct {
	log         *logger.Logger
	users       repos.UserRepo
	jobs        repos.JobRunRepo
	pageSize    int
	parallelism int
}

func New(baseLog *logger.Logger, users repos.UserRepo, jobs repos.JobRunRepo, pageSize, parallelism int) *Sweeper {
	if pageSize <= 0 {
		pageSize = 500
	}
	if parallelism <= 0 {
		parallelism = 4
	}
	return &Sweeper{
		log:         baseLog.With("component", "ReminderSweeper"),
		users:       users,
		jobs:        jobs,
		pageSize:    pageSize,
		parallelism: parallelism,
	}
}

// Sweep walks every user id page by page and returns how many jobs it enqueued.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	var enqueued atomic.Int64
	after := uuid.Nil
	for {
		ids, err := s.users.ListIDs(dbctx.Context{Ctx: ctx}, after, s.pageSize)
		if err != nil {
			return int(enqueued.Load()), err
		}
		if len(ids) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.parallelism)
		for _, id := range ids {
			g.Go(func() error {
				ok, err := s.enqueue(gctx, id, now)
				if ok {
					enqueued.Add(1)
				}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return int(enqueued.Load()), err
		}
		if len(ids) < s.pageSize {
			break
		}
		after = ids[len(ids)-1]
	}
	n := int(enqueued.Load())
	s.log.Info("reminder sweep enqueued", "jobs", n)
	return n, nil
}

func (s *Sweeper) enqueue(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	dbc := dbctx.Context{Ctx: ctx}
	exists, err := s.jobs.ExistsRunnable(dbc, userID, domainjobs.TypeReminderSweep)
	if err != nil || exists {
		return false, err
	}
	raw, err := json.Marshal(map[string]string{"user_id": userID.String()})
	if err != nil {
		return false, err
	}
	_, err = s.jobs.Create(dbc, []*domainjobs.JobRun{{
		OwnerUserID: userID,
		JobType:     domainjobs.TypeReminderSweep,
		RunAfter:    now.UTC(),
		Payload:     raw,
	}})
	return err == nil, err
}
