package projections

import (
	"context"
	"log/slog"

	"gymdesk/internal/domain/checkin"
	"gymdesk/internal/domain/plan"
	"gymdesk/internal/domain/subscription"
)

// DashboardSubscriptionStore defines the subscription store interface needed
// by the dashboard projection.
type DashboardSubscriptionStore interface {
	GetByUserID(ctx context.Context, userID string) (subscription.UserSubscription, error)
}

// DashboardPlanStore defines the plan store interface needed by the dashboard projection.
type DashboardPlanStore interface {
	GetByID(ctx context.Context, id string) (plan.MembershipPlan, error)
}

// DashboardMessageStore defines the message store interface needed by the dashboard projection.
type DashboardMessageStore interface {
	CountUnread(ctx context.Context, receiverID string) (int, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	UserID string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	SubscriptionStore DashboardSubscriptionStore
	PlanStore         DashboardPlanStore
	MessageStore      DashboardMessageStore
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Subscription *subscription.UserSubscription
	Plan         *plan.MembershipPlan
	CheckInPNG   string // base64 PNG, empty when no active subscription
	UnreadCount  int
}

// QueryGetDashboard assembles the member dashboard: the user's subscription,
// its plan, and the check-in code. The code is issued to any subscription
// whose active flag is set; the end date is not consulted here, matching the
// front desk's own scanner policy of treating the flag as authoritative.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	var result DashboardResult

	sub, err := deps.SubscriptionStore.GetByUserID(ctx, query.UserID)
	if err == nil {
		result.Subscription = &sub

		if sub.PlanID != "" {
			if p, err := deps.PlanStore.GetByID(ctx, sub.PlanID); err == nil {
				result.Plan = &p
			}
		}

		if sub.IsActive {
			token := checkin.Token{UserID: query.UserID}
			png, err := token.ImageBase64()
			if err != nil {
				slog.Error("internal_error", "op", "dashboard_qr", "user_id", query.UserID, "error", err)
			} else {
				result.CheckInPNG = png
			}
		}
	}

	if deps.MessageStore != nil {
		if count, err := deps.MessageStore.CountUnread(ctx, query.UserID); err == nil {
			result.UnreadCount = count
		}
	}

	return result, nil
}
