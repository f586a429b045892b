package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/data/repos"
	domainjobs "github.com/yungbote/jobtrail-backend/internal/domain/jobs"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

// Backoff returns the delay before the next attempt of a failed run.
type Backoff func(attempts int) time.Duration

// Context is the handle a handler gets for one claimed job run. Handlers
// never touch job_run directly; they finish through Succeed or Fail.
type Context struct {
	Ctx  context.Context
	DB   *gorm.DB
	Job  *domainjobs.JobRun
	Repo repos.JobRunRepo
	Log  *logger.Logger

	now      func() time.Time
	backoff  Backoff
	finished bool
}

func NewContext(ctx context.Context, db *gorm.DB, job *domainjobs.JobRun, repo repos.JobRunRepo, log *logger.Logger, now func() time.Time, backoff Backoff) *Context {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if backoff == nil {
		backoff = func(int) time.Duration { return 30 * time.Second }
	}
	return &Context{
		Ctx:     ctx,
		DB:      db,
		Job:     job,
		Repo:    repo,
		Log:     log.With("job_id", job.ID, "job_type", job.JobType),
		now:     now,
		backoff: backoff,
	}
}

func (c *Context) Now() time.Time { return c.now() }

// DecodePayload unmarshals the job payload into v. An empty payload leaves v untouched.
func (c *Context) DecodePayload(v any) error {
	if c.Job == nil || len(c.Job.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(c.Job.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", c.Job.JobType, err)
	}
	return nil
}

func (c *Context) Finished() bool { return c.finished }

func (c *Context) Succeed() error {
	if c.finished {
		return nil
	}
	c.finished = true
	return c.Repo.MarkSucceeded(dbctx.Context{Ctx: c.Ctx}, c.Job.ID, c.now())
}

// Fail records the error and schedules a retry; the claim query stops
// picking the run once attempts reach max_attempts.
func (c *Context) Fail(stage string, err error) {
	if c.finished {
		return
	}
	c.finished = true
	now := c.now()
	cause := fmt.Errorf("%s: %w", stage, err)
	retryAt := now.Add(c.backoff(c.Job.Attempts))
	if mErr := c.Repo.MarkFailed(dbctx.Context{Ctx: c.Ctx}, c.Job.ID, cause, now, retryAt); mErr != nil {
		c.Log.Error("mark job failed", "error", mErr)
		return
	}
	if c.Job.Attempts >= c.Job.MaxAttempts {
		c.Log.Error("job exhausted retries", "attempts", c.Job.Attempts, "error", cause)
		return
	}
	c.Log.Warn("job failed; will retry", "attempts", c.Job.Attempts, "retry_at", retryAt, "error", cause)
}
