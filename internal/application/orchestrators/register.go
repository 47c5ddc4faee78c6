package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gymdesk/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForRegister defines the store interface needed by Register.
type AccountStoreForRegister interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// RegisterInput carries input for the orchestrator.
type RegisterInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	AccountStore AccountStoreForRegister
}

var (
	ErrUsernameTaken    = errors.New("an account with this username already exists")
	ErrPasswordMismatch = errors.New("the two password fields did not match")
)

// ExecuteRegister coordinates member sign-up.
// PRE: Valid username, matching passwords >= 8 chars
// POST: Member account created with hashed password
// INVARIANT: Username must be unique
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (string, error) {
	if input.Password1 != input.Password2 {
		return "", ErrPasswordMismatch
	}

	// Check if username already exists
	_, err := deps.AccountStore.GetByUsername(ctx, input.Username)
	if err == nil {
		return "", ErrUsernameTaken
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Username:  input.Username,
		Email:     input.Email,
		IsTrainer: false,
		CreatedAt: time.Now(),
	}

	// Validate domain rules
	if err := acct.Validate(); err != nil {
		return "", err
	}

	// Set password (handles hashing and length validation)
	if err := acct.SetPassword(input.Password1); err != nil {
		return "", err
	}

	// Save to store
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_created", "username", input.Username, "role", acct.Role())

	return acct.ID, nil
}
