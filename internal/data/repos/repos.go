package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/data/repos/cv"
	"github.com/yungbote/jobtrail-backend/internal/data/repos/jobs"
	"github.com/yungbote/jobtrail-backend/internal/data/repos/jobsearch"
	"github.com/yungbote/jobtrail-backend/internal/data/repos/progress"
	"github.com/yungbote/jobtrail-backend/internal/data/repos/user"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type OnboardingRepo = user.OnboardingRepo

type CompanyRepo = jobsearch.CompanyRepo
type ContactRepo = jobsearch.ContactRepo
type ApplicationRepo = jobsearch.ApplicationRepo
type OutreachRepo = jobsearch.OutreachRepo

type StreakRepo = progress.StreakRepo
type WeeklyGoalRepo = progress.WeeklyGoalRepo
type QuestCompletionRepo = progress.QuestCompletionRepo
type NotificationRepo = progress.NotificationRepo
type ActivityEventRepo = progress.ActivityEventRepo

type CvAnalysisRepo = cv.CvAnalysisRepo

type JobRunRepo = jobs.JobRunRepo

// Set bundles every repository over one connection.
type Set struct {
	Users         UserRepo
	Onboarding    OnboardingRepo
	Companies     CompanyRepo
	Contacts      ContactRepo
	Applications  ApplicationRepo
	Outreach      OutreachRepo
	Streaks       StreakRepo
	Goals         WeeklyGoalRepo
	Quests        QuestCompletionRepo
	Notifications NotificationRepo
	Events        ActivityEventRepo
	CvAnalyses    CvAnalysisRepo
	JobRuns       JobRunRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Users:         NewUserRepo(db, baseLog),
		Onboarding:    NewOnboardingRepo(db, baseLog),
		Companies:     NewCompanyRepo(db, baseLog),
		Contacts:      NewContactRepo(db, baseLog),
		Applications:  NewApplicationRepo(db, baseLog),
		Outreach:      NewOutreachRepo(db, baseLog),
		Streaks:       NewStreakRepo(db, baseLog),
		Goals:         NewWeeklyGoalRepo(db, baseLog),
		Quests:        NewQuestCompletionRepo(db, baseLog),
		Notifications: NewNotificationRepo(db, baseLog),
		Events:        NewActivityEventRepo(db, baseLog),
		CvAnalyses:    NewCvAnalysisRepo(db, baseLog),
		JobRuns:       NewJobRunRepo(db, baseLog),
	}
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewOnboardingRepo(db *gorm.DB, baseLog *logger.Logger) OnboardingRepo {
	return user.NewOnboardingRepo(db, baseLog)
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return jobsearch.NewCompanyRepo(db, baseLog)
}
func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return jobsearch.NewContactRepo(db, baseLog)
}
func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	return jobsearch.NewApplicationRepo(db, baseLog)
}
func NewOutreachRepo(db *gorm.DB, baseLog *logger.Logger) OutreachRepo {
	return jobsearch.NewOutreachRepo(db, baseLog)
}

func NewStreakRepo(db *gorm.DB, baseLog *logger.Logger) StreakRepo {
	return progress.NewStreakRepo(db, baseLog)
}
func NewWeeklyGoalRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyGoalRepo {
	return progress.NewWeeklyGoalRepo(db, baseLog)
}
func NewQuestCompletionRepo(db *gorm.DB, baseLog *logger.Logger) QuestCompletionRepo {
	return progress.NewQuestCompletionRepo(db, baseLog)
}
func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return progress.NewNotificationRepo(db, baseLog)
}
func NewActivityEventRepo(db *gorm.DB, baseLog *logger.Logger) ActivityEventRepo {
	return progress.NewActivityEventRepo(db, baseLog)
}

func NewCvAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) CvAnalysisRepo {
	return cv.NewCvAnalysisRepo(db, baseLog)
}

func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return jobs.NewJobRunRepo(db, baseLog)
}
