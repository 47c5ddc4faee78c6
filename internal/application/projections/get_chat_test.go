package projections

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/message"
)

// mockChatAccountStore implements ChatAccountStore for testing.
type mockChatAccountStore struct {
	accounts map[string]account.Account
}

// GetByID implements ChatAccountStore.
// PRE: id is non-empty
// POST: returns account or error
func (m *mockChatAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return account.Account{}, errors.New("not found")
	}
	return a, nil
}

// mockChatMessageStore implements ChatMessageStore for testing.
type mockChatMessageStore struct {
	messages []message.Message
}

// ListBetween implements ChatMessageStore with the same pair semantics as
// the SQLite store: both directions, oldest first.
// PRE: userA and userB are non-empty
// POST: returns the pair's conversation sorted by CreatedAt ascending
func (m *mockChatMessageStore) ListBetween(_ context.Context, userA, userB string) ([]message.Message, error) {
	var out []message.Message
	for _, msg := range m.messages {
		if (msg.SenderID == userA && msg.ReceiverID == userB) ||
			(msg.SenderID == userB && msg.ReceiverID == userA) {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func chatFixture() GetChatDeps {
	return GetChatDeps{
		AccountStore: &mockChatAccountStore{accounts: map[string]account.Account{
			"m1": {ID: "m1", Username: "alice", CreatedAt: fixedTime},
			"t1": {ID: "t1", Username: "coach", IsTrainer: true, CreatedAt: fixedTime},
			"m2": {ID: "m2", Username: "bob", CreatedAt: fixedTime},
		}},
		MessageStore: &mockChatMessageStore{messages: []message.Message{
			{ID: "msg3", SenderID: "m1", ReceiverID: "t1", Content: "third", CreatedAt: fixedTime.Add(2 * time.Minute)},
			{ID: "msg1", SenderID: "m1", ReceiverID: "t1", Content: "first", CreatedAt: fixedTime},
			{ID: "msg2", SenderID: "t1", ReceiverID: "m1", Content: "second", CreatedAt: fixedTime.Add(time.Minute)},
			{ID: "msg4", SenderID: "m2", ReceiverID: "t1", Content: "unrelated", CreatedAt: fixedTime.Add(3 * time.Minute)},
		}},
	}
}

// TestQueryGetChat_ConversationOrder tests that the thread is oldest first
// and scoped to the pair.
func TestQueryGetChat_ConversationOrder(t *testing.T) {
	result, err := QueryGetChat(context.Background(), GetChatQuery{
		UserID:        "m1",
		CounterpartID: "t1",
	}, chatFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Counterpart.Username != "coach" {
		t.Errorf("Counterpart = %q, want coach", result.Counterpart.Username)
	}
	wantOrder := []string{"msg1", "msg2", "msg3"}
	if len(result.Messages) != len(wantOrder) {
		t.Fatalf("messages = %d, want %d", len(result.Messages), len(wantOrder))
	}
	for i, id := range wantOrder {
		if result.Messages[i].ID != id {
			t.Errorf("messages[%d].ID = %q, want %q", i, result.Messages[i].ID, id)
		}
	}
}

// TestQueryGetChat_UnknownCounterpart tests the missing-user error.
func TestQueryGetChat_UnknownCounterpart(t *testing.T) {
	_, err := QueryGetChat(context.Background(), GetChatQuery{
		UserID:        "m1",
		CounterpartID: "ghost",
	}, chatFixture())
	if !errors.Is(err, ErrCounterpartNotFound) {
		t.Errorf("expected ErrCounterpartNotFound, got %v", err)
	}
}

// TestQueryGetChat_EmptyConversation tests a chat with no history yet.
func TestQueryGetChat_EmptyConversation(t *testing.T) {
	result, err := QueryGetChat(context.Background(), GetChatQuery{
		UserID:        "m1",
		CounterpartID: "m2",
	}, chatFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Messages) != 0 {
		t.Errorf("messages = %d, want 0", len(result.Messages))
	}
	if result.Counterpart.ID != "m2" {
		t.Errorf("Counterpart.ID = %q, want m2", result.Counterpart.ID)
	}
}
