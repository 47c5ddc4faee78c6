package orchestrators

import (
	"context"
	"log/slog"

	"gymdesk/internal/domain/plan"

	"github.com/google/uuid"
)

// PlanStoreForSeed defines the store interface needed by SeedPlans.
type PlanStoreForSeed interface {
	Save(ctx context.Context, p plan.MembershipPlan) error
	List(ctx context.Context) ([]plan.MembershipPlan, error)
}

// SeedPlansDeps holds dependencies for SeedPlans.
type SeedPlansDeps struct {
	PlanStore PlanStoreForSeed
}

// ExecuteSeedPlans creates the default membership plans if none exist.
func ExecuteSeedPlans(ctx context.Context, deps SeedPlansDeps) error {
	existing, err := deps.PlanStore.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil // Already seeded
	}

	plans := []plan.MembershipPlan{
		{
			ID:           uuid.New().String(),
			Name:         "Basic Plan",
			Description:  "Gym floor access during staffed hours.\n\n* Cardio and free weights\n* Locker room access",
			PriceCents:   1000,
			DurationDays: 30,
		},
		{
			ID:           uuid.New().String(),
			Name:         "Premium Plan",
			Description:  "Everything in **Basic**, plus group classes and sauna.",
			PriceCents:   2500,
			DurationDays: 30,
		},
		{
			ID:           uuid.New().String(),
			Name:         "Annual Plan",
			Description:  "A full year of **Premium** access at a discount.",
			PriceCents:   25000,
			DurationDays: 365,
		},
	}

	for _, p := range plans {
		if err := p.Validate(); err != nil {
			return err
		}
		if err := deps.PlanStore.Save(ctx, p); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "plans_seeded", "plans", len(plans))
	return nil
}
