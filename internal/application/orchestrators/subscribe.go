package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gymdesk/internal/adapters/email"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/plan"
	"gymdesk/internal/domain/subscription"
)

// PlanStoreForSubscribe defines the store interface needed by Subscribe.
type PlanStoreForSubscribe interface {
	GetByID(ctx context.Context, id string) (plan.MembershipPlan, error)
}

// SubscriptionStoreForSubscribe defines the store interface needed by Subscribe.
type SubscriptionStoreForSubscribe interface {
	GetByUserID(ctx context.Context, userID string) (subscription.UserSubscription, error)
	Save(ctx context.Context, s subscription.UserSubscription) error
}

// AccountStoreForSubscribe defines the store interface needed by Subscribe.
type AccountStoreForSubscribe interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// SubscribeInput carries input for the orchestrator.
type SubscribeInput struct {
	UserID string
	PlanID string
}

// SubscribeDeps holds dependencies for Subscribe.
type SubscribeDeps struct {
	PlanStore         PlanStoreForSubscribe
	SubscriptionStore SubscriptionStoreForSubscribe
	AccountStore      AccountStoreForSubscribe
	Sender            email.Sender
	GenerateID        func() string
	Now               func() time.Time
}

var ErrPlanNotFound = errors.New("membership plan not found")

// ExecuteSubscribe puts a user on a plan. A user who already holds a
// subscription has it replaced in place: the term restarts from today and any
// remaining days on the old plan are forfeited.
// PRE: UserID identifies an existing account; PlanID may be anything
// POST: User holds exactly one subscription, active, starting today
func ExecuteSubscribe(ctx context.Context, input SubscribeInput, deps SubscribeDeps) (subscription.UserSubscription, error) {
	p, err := deps.PlanStore.GetByID(ctx, input.PlanID)
	if err != nil {
		return subscription.UserSubscription{}, ErrPlanNotFound
	}

	// Reuse the existing row if the user has subscribed before
	sub, err := deps.SubscriptionStore.GetByUserID(ctx, input.UserID)
	if err != nil {
		sub = subscription.UserSubscription{
			ID:     deps.GenerateID(),
			UserID: input.UserID,
		}
	}

	sub.ApplyPlan(p, deps.Now())

	if err := sub.Validate(); err != nil {
		return subscription.UserSubscription{}, err
	}

	if err := deps.SubscriptionStore.Save(ctx, sub); err != nil {
		return subscription.UserSubscription{}, err
	}

	slog.Info("subscription_event", "event", "subscribed", "user_id", input.UserID, "plan_id", p.ID, "end_date", sub.EndDate.Format("2006-01-02"))

	// Confirmation email is best-effort; a delivery failure never rolls back
	// the subscription.
	if deps.Sender != nil {
		sendConfirmation(ctx, deps, p, sub)
	}

	return sub, nil
}

// sendConfirmation emails the subscriber a summary of their new term.
func sendConfirmation(ctx context.Context, deps SubscribeDeps, p plan.MembershipPlan, sub subscription.UserSubscription) {
	acct, err := deps.AccountStore.GetByID(ctx, sub.UserID)
	if err != nil || acct.Email == "" {
		return
	}

	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your <strong>%s</strong> subscription is active from %s until %s.</p><p>Your check-in code is ready on your dashboard.</p>",
		acct.Username, p.Name,
		sub.StartDate.Format("2 January 2006"), sub.EndDate.Format("2 January 2006"))

	_, err = deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{acct.Email},
		Subject: fmt.Sprintf("You're subscribed to %s", p.Name),
		HTML:    html,
	})
	if err != nil {
		slog.Warn("subscription_event", "event", "confirmation_email_failed", "user_id", sub.UserID, "error", err)
	}
}
