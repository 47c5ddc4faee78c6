package message

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmptySenderID    = errors.New("sender ID is required")
	ErrEmptyReceiverID  = errors.New("receiver ID is required")
	ErrSameParticipants = errors.New("sender and receiver must be distinct users")
	ErrEmptyContent     = errors.New("message content cannot be empty")
)

// Message is one direct message between two users. A conversation is the set
// of messages between a pair, totally ordered by CreatedAt ascending.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Content    string
	ReadAt     time.Time // tracked but not consulted by any handler
	CreatedAt  time.Time
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if m.SenderID == "" {
		return ErrEmptySenderID
	}
	if m.ReceiverID == "" {
		return ErrEmptyReceiverID
	}
	if m.SenderID == m.ReceiverID {
		return ErrSameParticipants
	}
	if m.Content == "" {
		return ErrEmptyContent
	}
	if m.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// IsRead returns true if the message has been read.
// INVARIANT: ReadAt field is not mutated
func (m *Message) IsRead() bool {
	return !m.ReadAt.IsZero()
}

// MarkRead records when the message was read.
// PRE: Message exists
// POST: ReadAt is set to current time if previously zero
func (m *Message) MarkRead() {
	if m.ReadAt.IsZero() {
		m.ReadAt = time.Now()
	}
}
