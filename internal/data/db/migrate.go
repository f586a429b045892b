package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/domain/jobs"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		// =========================
		// Users
		// =========================
		&tracker.User{},
		&tracker.OnboardingProfile{},

		// =========================
		// Tracker
		// =========================
		&tracker.Company{},
		&tracker.Contact{},
		&tracker.Application{},
		&tracker.OutreachActivity{},

		// =========================
		// Derived progress
		// =========================
		&tracker.ActivityEvent{},
		&tracker.Streak{},
		&tracker.WeeklyGoal{},
		&tracker.QuestCompletion{},
		&tracker.Notification{},

		// =========================
		// CV analysis
		// =========================
		&tracker.CvAnalysis{},

		// =========================
		// Jobs / worker
		// =========================
		&jobs.JobRun{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	if db.Dialector.Name() == DriverPostgres {
		return EnsureCheckConstraints(db)
	}
	return nil
}

// EnsureCheckConstraints mirrors the Validate* rules as table CHECKs on
// Postgres. SQLite relies on the validators alone.
func EnsureCheckConstraints(db *gorm.DB) error {
	checks := []struct {
		table, name, expr string
	}{
		{"application", "chk_application_applied_date", `status <> 'Applied' OR applied_date IS NOT NULL`},
		{"outreach_activity", "chk_outreach_single_link", `(application_id IS NULL) <> (company_id IS NULL)`},
		{"weekly_goal", "chk_weekly_goal_targets", `applications_target > 0 AND outreach_target > 0`},
		{"weekly_goal", "chk_weekly_goal_current", `applications_current >= 0 AND outreach_current >= 0`},
		{"streak", "chk_streak_counters", `current_streak >= 0 AND longest_streak >= 0 AND total_points >= 0`},
		{"notification", "chk_notification_title", `char_length(title) >= 3`},
		{"notification", "chk_notification_message", `char_length(message) >= 10`},
		{"cv_analysis", "chk_cv_analysis_score", `ats_score >= 0 AND ats_score <= 100`},
	}
	for _, c := range checks {
		if err := db.Exec(fmt.Sprintf(`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %s;`, c.table, c.name)).Error; err != nil {
			return fmt.Errorf("drop %s: %w", c.name, err)
		}
		if err := db.Exec(fmt.Sprintf(`ALTER TABLE %q ADD CONSTRAINT %s CHECK (%s);`, c.table, c.name, c.expr)).Error; err != nil {
			return fmt.Errorf("create %s: %w", c.name, err)
		}
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_job_run_claim ON job_run (status, run_after, created_at);`).Error; err != nil {
		return fmt.Errorf("create idx_job_run_claim: %w", err)
	}
	return nil
}
