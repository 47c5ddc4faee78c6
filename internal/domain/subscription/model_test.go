package subscription_test

import (
	"testing"
	"time"

	"gymdesk/internal/domain/plan"
	"gymdesk/internal/domain/subscription"
)

var day = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

// TestUserSubscription_Validate tests validation of UserSubscription.
func TestUserSubscription_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sub     subscription.UserSubscription
		wantErr bool
	}{
		{
			name:    "valid subscription",
			sub:     subscription.UserSubscription{ID: "1", UserID: "u1", PlanID: "p1", StartDate: day, EndDate: day.AddDate(0, 0, 30), IsActive: true},
			wantErr: false,
		},
		{
			name:    "plan removed leaves valid row",
			sub:     subscription.UserSubscription{ID: "2", UserID: "u1", StartDate: day, EndDate: day.AddDate(0, 0, 30)},
			wantErr: false,
		},
		{
			name:    "missing user",
			sub:     subscription.UserSubscription{ID: "3", PlanID: "p1", StartDate: day, EndDate: day.AddDate(0, 0, 30)},
			wantErr: true,
		},
		{
			name:    "missing dates",
			sub:     subscription.UserSubscription{ID: "4", UserID: "u1", PlanID: "p1"},
			wantErr: true,
		},
		{
			name:    "end before start",
			sub:     subscription.UserSubscription{ID: "5", UserID: "u1", StartDate: day, EndDate: day.AddDate(0, 0, -1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestUserSubscription_ApplyPlan tests the window invariant on subscribe.
func TestUserSubscription_ApplyPlan(t *testing.T) {
	p := plan.MembershipPlan{ID: "p1", Name: "Basic Plan", PriceCents: 1000, DurationDays: 30}

	t.Run("fresh subscription", func(t *testing.T) {
		s := subscription.UserSubscription{ID: "s1", UserID: "u1"}
		s.ApplyPlan(p, day)
		if s.PlanID != "p1" {
			t.Errorf("PlanID = %q, want p1", s.PlanID)
		}
		if !s.StartDate.Equal(day) {
			t.Errorf("StartDate = %v, want %v", s.StartDate, day)
		}
		if want := day.AddDate(0, 0, 30); !s.EndDate.Equal(want) {
			t.Errorf("EndDate = %v, want %v", s.EndDate, want)
		}
		if !s.IsActive {
			t.Error("subscription should be active")
		}
	})

	t.Run("re-subscribe overwrites window and drops remaining term", func(t *testing.T) {
		s := subscription.UserSubscription{ID: "s1", UserID: "u1"}
		s.ApplyPlan(p, day.AddDate(0, 0, -20)) // 10 days left on the old window
		s.IsActive = false

		annual := plan.MembershipPlan{ID: "p2", Name: "Annual", PriceCents: 8000, DurationDays: 365}
		s.ApplyPlan(annual, day)

		if s.PlanID != "p2" {
			t.Errorf("PlanID = %q, want p2", s.PlanID)
		}
		if !s.StartDate.Equal(day) {
			t.Errorf("StartDate should reset to today, got %v", s.StartDate)
		}
		if want := day.AddDate(0, 0, 365); !s.EndDate.Equal(want) {
			t.Errorf("EndDate = %v, want %v", s.EndDate, want)
		}
		if !s.IsActive {
			t.Error("re-subscribing should force IsActive")
		}
		if s.ID != "s1" {
			t.Error("row identity should be stable across re-subscribe")
		}
	})
}

// TestUserSubscription_IsExpired tests window expiry.
func TestUserSubscription_IsExpired(t *testing.T) {
	s := subscription.UserSubscription{UserID: "u1", StartDate: day, EndDate: day.AddDate(0, 0, 30)}
	if s.IsExpired(day.AddDate(0, 0, 29)) {
		t.Error("subscription should not be expired inside the window")
	}
	if !s.IsExpired(day.AddDate(0, 0, 31)) {
		t.Error("subscription should be expired after the window")
	}
}
