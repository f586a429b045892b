package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/data/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/data/db"
	"github.com/yungbote/jobtrail-backend/internal/data/repos"
	"github.com/yungbote/jobtrail-backend/internal/jobs/handlers"
	"github.com/yungbote/jobtrail-backend/internal/jobs/runtime"
	"github.com/yungbote/jobtrail-backend/internal/jobs/sweeper"
	"github.com/yungbote/jobtrail-backend/internal/jobs/worker"
	"github.com/yungbote/jobtrail-backend/internal/modules/cvmatch"
	"github.com/yungbote/jobtrail-backend/internal/observability"
	"github.com/yungbote/jobtrail-backend/internal/platform/clock"
	"github.com/yungbote/jobtrail-backend/internal/platform/locks"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
	"github.com/yungbote/jobtrail-backend/internal/platform/sendgrid"
	"github.com/yungbote/jobtrail-backend/internal/services"
)

type App struct {
	Log     *logger.Logger
	DB      *gorm.DB
	Cfg     Config
	Repos   repos.Set
	Metrics *observability.Metrics

	Progress services.ProgressService
	Cv       services.CvService
	Worker   *worker.Worker
	Sweeper  *sweeper.Sweeper

	dbService *db.Service
	closers   []func(context.Context) error
}

// New opens the store and wires every component. Callers own Close.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	a := &App{Log: log, Cfg: cfg}

	a.closers = append(a.closers, observability.InitOTel(ctx, log, cfg.Otel))
	a.Metrics = observability.Init(log)

	dbs, err := db.Open(log, cfg.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}
	a.dbService = dbs
	a.DB = dbs.DB()
	a.Repos = repos.NewSet(a.DB, log)

	locker, err := a.buildLocker(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	base := aggregates.BaseDeps{
		DB:     a.DB,
		Log:    log,
		Hooks:  aggregates.NewObservabilityHooks(a.Metrics),
		Locker: locker,
		Clock:  clock.System{},
	}
	progressAgg := aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
		Base:   base,
		Repos:  a.Repos,
		Config: cfg.Progress,
	})
	cvAgg := aggregates.NewCvAggregate(aggregates.CvAggregateDeps{
		Base:         base,
		Applications: a.Repos.Applications,
		Analyses:     a.Repos.CvAnalyses,
	})

	a.Progress = services.NewProgressService(log, progressAgg, a.Metrics)
	a.Cv = services.NewCvService(log, NewAnalyzer(log, cfg), cvAgg, a.Metrics)

	registry := runtime.NewRegistry()
	if err := registry.Register(&handlers.NotificationEmail{
		Users:         a.Repos.Users,
		Notifications: a.Repos.Notifications,
		Mail:          buildMailer(log, cfg.SendGrid),
	}); err != nil {
		a.Close()
		return nil, err
	}
	if err := registry.Register(&handlers.ReminderSweep{Progress: a.Progress}); err != nil {
		a.Close()
		return nil, err
	}
	a.Worker = worker.NewWorker(a.DB, log, a.Repos.JobRuns, registry, a.Metrics, clock.System{}, cfg.Worker)
	a.Sweeper = sweeper.New(log, a.Repos.Users, a.Repos.JobRuns, cfg.SweepPageSize, cfg.SweepParallelism)
	return a, nil
}

func (a *App) Migrate() error {
	if err := db.AutoMigrateAll(a.DB); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	a.Log.Info("schema migrated", "tables", len(db.Models()))
	return nil
}

func (a *App) buildLocker(ctx context.Context) (locks.Locker, error) {
	if a.Cfg.Redis.Addr == "" {
		return locks.NewKeyed(), nil
	}
	r, err := locks.NewRedis(ctx, a.Log, a.Cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis locker: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return r.Close() })
	a.Log.Info("per-user lock backed by redis", "addr", a.Cfg.Redis.Addr)
	return r, nil
}

func buildMailer(log *logger.Logger, cfg sendgrid.Config) sendgrid.Client {
	if cfg.APIKey == "" {
		log.Warn("SENDGRID_API_KEY not set; notification emails are logged only")
		return handlers.LogMailer{Log: log.With("client", "LogMailer")}
	}
	c, err := sendgrid.New(log, cfg)
	if err != nil {
		log.Warn("sendgrid init failed; notification emails are logged only", "error", err)
		return handlers.LogMailer{Log: log.With("client", "LogMailer")}
	}
	return c
}

// NewAnalyzer builds the CV analyzer. An external scorer is attached only
// when CV_SCORER_URL is set.
func NewAnalyzer(log *logger.Logger, cfg Config) *cvmatch.Analyzer {
	var external cvmatch.ExternalScorer
	if cfg.CvScorer.URL != "" {
		s, err := cvmatch.NewHTTPScorer(log, cfg.CvScorer)
		if err != nil {
			log.Warn("external cv scorer disabled", "error", err)
		} else {
			external = s
		}
	}
	return cvmatch.NewAnalyzer(log, cfg.CvMatch, external)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx := context.Background()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if a.closers[i] == nil {
			continue
		}
		if err := a.closers[i](ctx); err != nil && a.Log != nil {
			a.Log.Warn("shutdown step failed", "error", err)
		}
	}
	a.closers = nil
	if a.dbService != nil {
		_ = a.dbService.Close()
		a.dbService = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
