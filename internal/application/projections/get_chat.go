package projections

import (
	"context"
	"errors"

	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/message"
)

// ChatAccountStore defines the account store interface needed by the chat projection.
type ChatAccountStore interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// ChatMessageStore defines the message store interface needed by the chat projection.
type ChatMessageStore interface {
	ListBetween(ctx context.Context, userA, userB string) ([]message.Message, error)
}

// GetChatQuery carries input for the chat projection.
type GetChatQuery struct {
	UserID        string
	CounterpartID string
}

// GetChatDeps holds dependencies for the chat projection.
type GetChatDeps struct {
	AccountStore ChatAccountStore
	MessageStore ChatMessageStore
}

// ChatResult carries the output of the chat projection.
type ChatResult struct {
	Counterpart account.Account
	Messages    []message.Message // oldest first
}

var ErrCounterpartNotFound = errors.New("chat partner not found")

// QueryGetChat loads the two-way conversation between the viewer and another
// user, oldest message first. Any existing user is a valid counterpart; the
// inbox contact list narrows who is offered, not who is reachable.
func QueryGetChat(ctx context.Context, query GetChatQuery, deps GetChatDeps) (ChatResult, error) {
	counterpart, err := deps.AccountStore.GetByID(ctx, query.CounterpartID)
	if err != nil {
		return ChatResult{}, ErrCounterpartNotFound
	}

	messages, err := deps.MessageStore.ListBetween(ctx, query.UserID, query.CounterpartID)
	if err != nil {
		return ChatResult{}, err
	}

	return ChatResult{
		Counterpart: counterpart,
		Messages:    messages,
	}, nil
}
