package message

import (
	"context"

	domain "gymdesk/internal/domain/message"
)

// Store persists Message state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Message, error)
	Save(ctx context.Context, value domain.Message) error
	Delete(ctx context.Context, id string) error
	ListBetween(ctx context.Context, userA, userB string) ([]domain.Message, error)
	ListInvolving(ctx context.Context, userID string) ([]domain.Message, error)
	CountUnread(ctx context.Context, receiverID string) (int, error)
}
