package subscription

import (
	"errors"
	"time"

	"gymdesk/internal/domain/plan"
)

// Domain errors
var (
	ErrEmptyUserID    = errors.New("subscription user ID is required")
	ErrNoDates        = errors.New("subscription dates must be set")
	ErrEndBeforeStart = errors.New("subscription end date cannot precede start date")
)

// UserSubscription binds a user to a plan for a validity window. Each user has
// at most one row: re-subscribing overwrites the plan and dates in place, so
// no history is kept. PlanID is empty when the plan was removed after the
// subscription was taken out.
type UserSubscription struct {
	ID        string
	UserID    string
	PlanID    string
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
}

// Validate checks if the UserSubscription has valid data.
// PRE: UserSubscription struct is populated
// POST: Returns nil if valid, error otherwise
func (s *UserSubscription) Validate() error {
	if s.UserID == "" {
		return ErrEmptyUserID
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return ErrNoDates
	}
	if s.EndDate.Before(s.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

// ApplyPlan points the subscription at a plan and resets its window to start
// today. Any remaining term on a previous plan is discarded.
// PRE: p has been validated
// POST: PlanID, StartDate, EndDate set; IsActive is true;
//       EndDate == StartDate + p.DurationDays
func (s *UserSubscription) ApplyPlan(p plan.MembershipPlan, today time.Time) {
	day := today.Truncate(24 * time.Hour)
	s.PlanID = p.ID
	s.StartDate = day
	s.EndDate = day.AddDate(0, 0, p.DurationDays)
	s.IsActive = true
}

// IsExpired reports whether the window has passed. Note the dashboard does
// NOT consult this when issuing a check-in token; it checks IsActive only.
// INVARIANT: UserSubscription fields are not mutated
func (s *UserSubscription) IsExpired(now time.Time) bool {
	return now.After(s.EndDate)
}
