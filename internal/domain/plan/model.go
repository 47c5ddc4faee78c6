package plan

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrEmptyName       = errors.New("plan name is required")
	ErrInvalidPrice    = errors.New("plan price cannot be negative")
	ErrInvalidDuration = errors.New("plan duration must be at least one day")
)

// MembershipPlan is a purchasable plan. Plans are reference data: seeded at
// startup and never edited through the application.
type MembershipPlan struct {
	ID           string
	Name         string
	Description  string // markdown, rendered in the catalog
	PriceCents   int
	DurationDays int
}

// Validate checks if the MembershipPlan has valid data.
// PRE: MembershipPlan struct is populated
// POST: Returns nil if valid, error otherwise
func (p *MembershipPlan) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.PriceCents < 0 {
		return ErrInvalidPrice
	}
	if p.DurationDays < 1 {
		return ErrInvalidDuration
	}
	return nil
}

// PriceDollars renders the price for display, e.g. 1000 -> "10.00".
// INVARIANT: MembershipPlan fields are not mutated
func (p *MembershipPlan) PriceDollars() string {
	return fmt.Sprintf("%d.%02d", p.PriceCents/100, p.PriceCents%100)
}
