package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/jobtrail-backend/internal/data/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/data/db"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/jobs/worker"
	"github.com/yungbote/jobtrail-backend/internal/modules/cvmatch"
	"github.com/yungbote/jobtrail-backend/internal/observability"
	"github.com/yungbote/jobtrail-backend/internal/platform/envutil"
	"github.com/yungbote/jobtrail-backend/internal/platform/locks"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
	"github.com/yungbote/jobtrail-backend/internal/platform/sendgrid"
)

type Config struct {
	LogMode     string
	ConfigFile  string
	MetricsAddr string

	DB       db.Config
	Worker   worker.Config
	SendGrid sendgrid.Config
	CvScorer cvmatch.HTTPScorerConfig
	Otel     observability.OtelConfig
	Redis    locks.RedisConfig

	SweepPageSize    int
	SweepParallelism int

	Progress aggregates.ProgressConfig
	CvMatch  cvmatch.Config
}

// LoadConfig reads the environment, then applies the YAML file named by
// JOBTRAIL_CONFIG on top. The file only carries domain tunables.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		ConfigFile:  envutil.String("JOBTRAIL_CONFIG", ""),
		MetricsAddr: envutil.String("METRICS_ADDR", ""),
		DB:          db.ConfigFromEnv(),
		Worker:      worker.ConfigFromEnv(),
		SendGrid:    sendgrid.ConfigFromEnv(),
		CvScorer:    cvmatch.HTTPScorerConfigFromEnv(),
		Otel: observability.OtelConfig{
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "jobtrail"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", ""),
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float64("OTEL_SAMPLER_RATIO", 0.1),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
		},
		Redis: locks.RedisConfig{
			Addr: envutil.String("REDIS_ADDR", ""),
			TTL:  envutil.Duration("REDIS_LOCK_TTL", 30*time.Second),
		},
		SweepPageSize:    envutil.Int("SWEEP_PAGE_SIZE", 500),
		SweepParallelism: envutil.Int("SWEEP_PARALLELISM", 4),
		Progress:         aggregates.DefaultProgressConfig(),
		CvMatch:          cvmatch.DefaultConfig(),
	}
	cfg.Progress.ReminderHour = envutil.Int("REMINDER_HOUR", cfg.Progress.ReminderHour)

	if cfg.ConfigFile == "" {
		return cfg, nil
	}
	f, err := os.Open(cfg.ConfigFile)
	if err != nil {
		return cfg, fmt.Errorf("open config %s: %w", cfg.ConfigFile, err)
	}
	defer f.Close()
	if err := ApplyOverlay(&cfg, f); err != nil {
		return cfg, fmt.Errorf("config %s: %w", cfg.ConfigFile, err)
	}
	if log != nil {
		log.Info("config overlay applied", "path", cfg.ConfigFile)
	}
	return cfg, nil
}

type overlay struct {
	Scoring      map[string]int `yaml:"scoring"`
	Goals        *goalsOverlay  `yaml:"goals"`
	ReminderHour *int           `yaml:"reminder_hour"`
	CvMatch      *yaml.Node     `yaml:"cvmatch"`
}

type goalsOverlay struct {
	ApplicationsTarget int    `yaml:"applications_target"`
	OutreachTarget     int    `yaml:"outreach_target"`
	WeekStart          string `yaml:"week_start"`
}

// ApplyOverlay merges a YAML document into cfg. Keys it does not name keep
// their current values; unknown keys are rejected.
func ApplyOverlay(cfg *Config, r io.Reader) error {
	var ov overlay
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ov); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode overlay: %w", err)
	}

	if len(ov.Scoring) > 0 {
		scoring := make(map[tracker.EventKind]int, len(cfg.Progress.Scoring)+len(ov.Scoring))
		for k, v := range cfg.Progress.Scoring {
			scoring[k] = v
		}
		for k, v := range ov.Scoring {
			kind := tracker.EventKind(k)
			if !kind.Valid() {
				return fmt.Errorf("scoring: unknown event kind %q", k)
			}
			if v < 0 {
				return fmt.Errorf("scoring: %s points must be >= 0", k)
			}
			scoring[kind] = v
		}
		cfg.Progress.Scoring = scoring
	}

	if g := ov.Goals; g != nil {
		if g.ApplicationsTarget < 0 || g.OutreachTarget < 0 {
			return fmt.Errorf("goals: targets must be positive")
		}
		if g.ApplicationsTarget > 0 {
			cfg.Progress.Goals.ApplicationsTarget = g.ApplicationsTarget
		}
		if g.OutreachTarget > 0 {
			cfg.Progress.Goals.OutreachTarget = g.OutreachTarget
		}
		if g.WeekStart != "" {
			day, err := parseWeekday(g.WeekStart)
			if err != nil {
				return fmt.Errorf("goals: %w", err)
			}
			cfg.Progress.Goals.WeekStartDay = &day
		}
	}

	if ov.ReminderHour != nil {
		if *ov.ReminderHour < 0 || *ov.ReminderHour > 23 {
			return fmt.Errorf("reminder_hour: %d outside 0..23", *ov.ReminderHour)
		}
		cfg.Progress.ReminderHour = *ov.ReminderHour
	}

	if ov.CvMatch != nil {
		// Decoding onto the current value keeps fields the document omits.
		cm := cfg.CvMatch
		if err := ov.CvMatch.Decode(&cm); err != nil {
			return fmt.Errorf("cvmatch: %w", err)
		}
		cfg.CvMatch = cm
	}
	return nil
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.TrimSpace(s)
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown week_start %q", s)
}
