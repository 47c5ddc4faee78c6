package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/message"
)

// MessageStoreForSend defines the store interface needed by SendMessage.
type MessageStoreForSend interface {
	Save(ctx context.Context, m message.Message) error
}

// AccountStoreForSend defines the store interface needed by SendMessage.
type AccountStoreForSend interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// SendMessageInput carries input for the orchestrator.
type SendMessageInput struct {
	SenderID   string
	ReceiverID string
	Content    string
}

// SendMessageDeps holds dependencies for SendMessage.
type SendMessageDeps struct {
	MessageStore MessageStoreForSend
	AccountStore AccountStoreForSend
	GenerateID   func() string
	Now          func() time.Time
}

var ErrReceiverNotFound = errors.New("recipient not found")

// ExecuteSendMessage stores a direct message between two users.
// PRE: SenderID is an authenticated user; Content may be empty
// POST: Message saved when content is present; empty content is a silent no-op
func ExecuteSendMessage(ctx context.Context, input SendMessageInput, deps SendMessageDeps) (message.Message, error) {
	// The counterpart must exist regardless of content; an empty post to an
	// unknown user is still a miss.
	if _, err := deps.AccountStore.GetByID(ctx, input.ReceiverID); err != nil {
		return message.Message{}, ErrReceiverNotFound
	}

	// Posting an empty form drops the message without complaint; the chat
	// page simply re-renders.
	if input.Content == "" {
		return message.Message{}, nil
	}

	m := message.Message{
		ID:         deps.GenerateID(),
		SenderID:   input.SenderID,
		ReceiverID: input.ReceiverID,
		Content:    input.Content,
		CreatedAt:  deps.Now(),
	}

	if err := m.Validate(); err != nil {
		return message.Message{}, err
	}

	if err := deps.MessageStore.Save(ctx, m); err != nil {
		return message.Message{}, err
	}

	slog.Info("message_event", "event", "message_sent", "message_id", m.ID, "sender_id", m.SenderID, "receiver_id", m.ReceiverID)
	return m, nil
}
