package projections

import (
	"context"

	storeaccount "gymdesk/internal/adapters/storage/account"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/message"
)

// InboxAccountStore defines the account store interface needed by the inbox projection.
type InboxAccountStore interface {
	List(ctx context.Context, filter storeaccount.ListFilter) ([]account.Account, error)
}

// InboxMessageStore defines the message store interface needed by the inbox projection.
type InboxMessageStore interface {
	ListInvolving(ctx context.Context, userID string) ([]message.Message, error)
}

// GetInboxQuery carries input for the inbox projection.
type GetInboxQuery struct {
	UserID string
	Role   string
}

// GetInboxDeps holds dependencies for the inbox projection.
type GetInboxDeps struct {
	AccountStore InboxAccountStore
	MessageStore InboxMessageStore
}

// InboxResult carries the output of the inbox projection.
type InboxResult struct {
	Contacts []account.Account // who the viewer may start a chat with
	Messages []message.Message // everything involving the viewer, newest first
}

// QueryGetInbox assembles the inbox page. Trainers see every user as a
// potential contact; members see only trainers. The viewer never appears
// in their own contact list.
func QueryGetInbox(ctx context.Context, query GetInboxQuery, deps GetInboxDeps) (InboxResult, error) {
	var filter storeaccount.ListFilter
	if query.Role != account.RoleTrainer {
		filter.Role = account.RoleTrainer
	}

	contacts, err := deps.AccountStore.List(ctx, filter)
	if err != nil {
		return InboxResult{}, err
	}

	result := InboxResult{}
	for _, c := range contacts {
		if c.ID == query.UserID {
			continue
		}
		result.Contacts = append(result.Contacts, c)
	}

	messages, err := deps.MessageStore.ListInvolving(ctx, query.UserID)
	if err != nil {
		return InboxResult{}, err
	}
	result.Messages = messages

	return result, nil
}
