package plan

import (
	"context"

	domain "gymdesk/internal/domain/plan"
)

// Store persists MembershipPlan state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.MembershipPlan, error)
	GetByName(ctx context.Context, name string) (domain.MembershipPlan, error)
	Save(ctx context.Context, value domain.MembershipPlan) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.MembershipPlan, error)
	Count(ctx context.Context) (int, error)
}
