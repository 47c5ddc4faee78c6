package subscription

import (
	"context"

	domain "gymdesk/internal/domain/subscription"
)

// Store persists UserSubscription state. Each user holds at most one row,
// enforced by a unique constraint on user_id.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.UserSubscription, error)
	GetByUserID(ctx context.Context, userID string) (domain.UserSubscription, error)
	Save(ctx context.Context, value domain.UserSubscription) error
	Delete(ctx context.Context, id string) error
	ClearPlan(ctx context.Context, planID string) error
	Count(ctx context.Context) (int, error)
}
