package aggregates

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

func (a *progressAggregate) CreateUser(ctx context.Context, in domainagg.CreateUserInput) (domainagg.CreateUserResult, error) {
	const op = "Progress.CreateUser"
	var out domainagg.CreateUserResult

	r := a.deps.Repos
	if r.Users == nil || r.Streaks == nil || r.Onboarding == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "user repos not configured", nil)
	}
	if err := tracker.ValidatePassword(in.Password); err != nil {
		return out, MapError(op, err)
	}
	cost := a.cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return out, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	u := &tracker.User{
		Email:             tracker.NormalizeEmail(in.Email),
		PasswordHash:      string(hash),
		DisplayName:       strings.TrimSpace(in.DisplayName),
		NotificationPrefs: datatypes.NewJSONType(in.Prefs),
	}
	if err := tracker.ValidateUser(u); err != nil {
		return out, MapError(op, err)
	}
	var profile *tracker.OnboardingProfile
	if in.Onboarding != nil {
		profile = &tracker.OnboardingProfile{
			Sentiment:      in.Onboarding.Sentiment,
			DreamMilestone: strings.TrimSpace(in.Onboarding.DreamMilestone),
		}
	}

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		taken, err := r.Users.EmailExists(dbc, u.Email)
		if err != nil {
			return err
		}
		if taken {
			return ConflictError("email already registered")
		}
		if err := r.Users.Create(dbc, u); err != nil {
			return err
		}
		st := &tracker.Streak{UserID: u.ID}
		if err := r.Streaks.Create(dbc, st); err != nil {
			return err
		}
		if profile != nil {
			profile.UserID = u.ID
			if err := tracker.ValidateOnboarding(profile); err != nil {
				return err
			}
			if err := r.Onboarding.Create(dbc, profile); err != nil {
				return err
			}
		}
		out = domainagg.CreateUserResult{User: *u, Streak: *st}
		return nil
	})
	if err != nil {
		return domainagg.CreateUserResult{}, err
	}
	a.deps.Base.Log.Info("user created", "user_id", u.ID)
	return out, nil
}
