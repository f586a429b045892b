package quests

// Snapshot is the aggregate state quests are judged on.
type Snapshot struct {
	CurrentStreak          int
	LongestStreak          int
	TotalApplications      int
	TotalOutreach          int
	TotalContacts          int
	Interviews             int
	Offers                 int
	WeekApplications       int
	WeekApplicationsTarget int
	WeekOutreach           int
	WeekOutreachTarget     int
}

type Quest struct {
	ID          string
	Title       string
	Description string
	Points      int
	done        func(Snapshot) bool
}

func (q Quest) Satisfied(s Snapshot) bool { return q.done(s) }

var catalog = []Quest{
	{ID: "first_application", Title: "First Application", Description: "Log your first job application.", Points: 20,
		done: func(s Snapshot) bool { return s.TotalApplications >= 1 }},
	{ID: "first_outreach", Title: "First Outreach", Description: "Reach out to your first contact.", Points: 20,
		done: func(s Snapshot) bool { return s.TotalOutreach >= 1 }},
	{ID: "first_interview", Title: "Interview Unlocked", Description: "Move an application to Interview.", Points: 50,
		done: func(s Snapshot) bool { return s.Interviews >= 1 }},
	{ID: "first_offer", Title: "Offer in Hand", Description: "Receive your first offer.", Points: 100,
		done: func(s Snapshot) bool { return s.Offers >= 1 }},
	{ID: "three_day_streak", Title: "Three Day Streak", Description: "Stay active three days in a row.", Points: 30,
		done: func(s Snapshot) bool { return s.CurrentStreak >= 3 }},
	{ID: "seven_day_streak", Title: "Seven Day Streak", Description: "Stay active a full week in a row.", Points: 70,
		done: func(s Snapshot) bool { return s.CurrentStreak >= 7 }},
	{ID: "five_outreach_week", Title: "Networking Sprint", Description: "Send five outreach messages in one week.", Points: 40,
		done: func(s Snapshot) bool { return s.WeekOutreach >= 5 }},
	{ID: "weekly_applications_goal", Title: "Weekly Target Hit", Description: "Reach your weekly applications goal.", Points: 40,
		done: func(s Snapshot) bool {
			return s.WeekApplicationsTarget > 0 && s.WeekApplications >= s.WeekApplicationsTarget
		}},
	{ID: "weekly_goals_complete", Title: "Clean Sweep", Description: "Reach both weekly goals in the same week.", Points: 60,
		done: func(s Snapshot) bool {
			return s.WeekApplicationsTarget > 0 && s.WeekOutreachTarget > 0 &&
				s.WeekApplications >= s.WeekApplicationsTarget && s.WeekOutreach >= s.WeekOutreachTarget
		}},
	{ID: "ten_applications", Title: "Momentum", Description: "Log ten applications.", Points: 50,
		done: func(s Snapshot) bool { return s.TotalApplications >= 10 }},
	{ID: "network_builder", Title: "Network Builder", Description: "Add five contacts.", Points: 30,
		done: func(s Snapshot) bool { return s.TotalContacts >= 5 }},
}

// Catalog returns the quests in evaluation order.
func Catalog() []Quest {
	out := make([]Quest, len(catalog))
	copy(out, catalog)
	return out
}

// Evaluate returns satisfied quests missing from completed, in catalog order.
// It is pure: the same inputs always give the same answer.
func Evaluate(s Snapshot, completed map[string]bool) []Quest {
	var out []Quest
	for _, q := range catalog {
		if completed[q.ID] {
			continue
		}
		if q.done(s) {
			out = append(out, q)
		}
	}
	return out
}
