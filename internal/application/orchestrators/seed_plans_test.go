package orchestrators

import (
	"context"
	"testing"
)

// TestExecuteSeedPlans_Fresh tests seeding into an empty catalogue.
func TestExecuteSeedPlans_Fresh(t *testing.T) {
	store := newMockPlanStore()

	if err := ExecuteSeedPlans(context.Background(), SeedPlansDeps{PlanStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.plans) != 3 {
		t.Fatalf("plans seeded = %d, want 3", len(store.plans))
	}

	var foundBasic bool
	for _, p := range store.plans {
		if p.Name == "Basic Plan" {
			foundBasic = true
			if p.PriceCents != 1000 {
				t.Errorf("Basic Plan price = %d cents, want 1000", p.PriceCents)
			}
			if p.DurationDays != 30 {
				t.Errorf("Basic Plan duration = %d days, want 30", p.DurationDays)
			}
		}
	}
	if !foundBasic {
		t.Error("Basic Plan missing from seeded catalogue")
	}
}

// TestExecuteSeedPlans_Idempotent tests that an existing catalogue is left alone.
func TestExecuteSeedPlans_Idempotent(t *testing.T) {
	store := newMockPlanStore()

	if err := ExecuteSeedPlans(context.Background(), SeedPlansDeps{PlanStore: store}); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := ExecuteSeedPlans(context.Background(), SeedPlansDeps{PlanStore: store}); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if len(store.plans) != 3 {
		t.Errorf("plans after double seed = %d, want 3", len(store.plans))
	}
}
