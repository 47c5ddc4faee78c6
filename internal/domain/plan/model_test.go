package plan_test

import (
	"testing"

	"gymdesk/internal/domain/plan"
)

// TestMembershipPlan_Validate tests validation of MembershipPlan.
func TestMembershipPlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		plan    plan.MembershipPlan
		wantErr bool
	}{
		{
			name:    "valid plan",
			plan:    plan.MembershipPlan{ID: "1", Name: "Basic Plan", PriceCents: 1000, DurationDays: 30},
			wantErr: false,
		},
		{
			name:    "free plan is allowed",
			plan:    plan.MembershipPlan{ID: "2", Name: "Trial", PriceCents: 0, DurationDays: 7},
			wantErr: false,
		},
		{
			name:    "empty name",
			plan:    plan.MembershipPlan{ID: "3", PriceCents: 1000, DurationDays: 30},
			wantErr: true,
		},
		{
			name:    "negative price",
			plan:    plan.MembershipPlan{ID: "4", Name: "Bad", PriceCents: -1, DurationDays: 30},
			wantErr: true,
		},
		{
			name:    "zero duration",
			plan:    plan.MembershipPlan{ID: "5", Name: "Bad", PriceCents: 1000, DurationDays: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestMembershipPlan_PriceDollars tests price display formatting.
func TestMembershipPlan_PriceDollars(t *testing.T) {
	tests := []struct {
		cents int
		want  string
	}{
		{1000, "10.00"},
		{2550, "25.50"},
		{5, "0.05"},
		{0, "0.00"},
	}

	for _, tt := range tests {
		p := plan.MembershipPlan{PriceCents: tt.cents}
		if got := p.PriceDollars(); got != tt.want {
			t.Errorf("PriceDollars(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
