package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *tracker.User {
	tb.Helper()
	u := &tracker.User{
		Model:             tracker.Model{ID: uuid.New()},
		Email:             tracker.NormalizeEmail(email),
		PasswordHash:      "hash",
		DisplayName:       "Test User",
		NotificationPrefs: datatypes.NewJSONType(tracker.NotificationPrefs{EmailEnabled: true}),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedStreak(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *tracker.Streak {
	tb.Helper()
	s := &tracker.Streak{UserID: userID}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed streak: %v", err)
	}
	return s
}

func SeedCompany(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *tracker.Company {
	tb.Helper()
	c := &tracker.Company{UserID: userID, Name: name}
	if err := tracker.ValidateCompany(c); err != nil {
		tb.Fatalf("seed company: %v", err)
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed company: %v", err)
	}
	return c
}

func SeedContact(tb testing.TB, ctx context.Context, tx *gorm.DB, companyID uuid.UUID, name, email string) *tracker.Contact {
	tb.Helper()
	c := &tracker.Contact{CompanyID: companyID, Name: name, Email: email}
	if err := tracker.ValidateContact(c); err != nil {
		tb.Fatalf("seed contact: %v", err)
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contact: %v", err)
	}
	return c
}

func SeedApplication(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID, title string) *tracker.Application {
	tb.Helper()
	a := &tracker.Application{UserID: userID, CompanyID: companyID, JobTitle: title, Status: tracker.StatusPlanned}
	if err := tracker.ValidateApplication(a); err != nil {
		tb.Fatalf("seed application: %v", err)
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed application: %v", err)
	}
	return a
}

func SeedOutreach(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, contactID, companyID uuid.UUID, sent time.Time, followUp *time.Time) *tracker.OutreachActivity {
	tb.Helper()
	o := &tracker.OutreachActivity{
		UserID:       userID,
		ContactID:    contactID,
		CompanyID:    &companyID,
		Channel:      tracker.ChannelEmail,
		SentDate:     tracker.Day(sent),
		FollowUpDate: followUp,
	}
	if err := tracker.ValidateOutreach(o); err != nil {
		tb.Fatalf("seed outreach: %v", err)
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed outreach: %v", err)
	}
	return o
}

func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Ptr[T any](v T) *T { return &v }
