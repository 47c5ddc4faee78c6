package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymdesk/internal/domain/account"
)

// seedLoginAccount creates a store holding one account with a known password.
func seedLoginAccount(t *testing.T, password string, trainer bool) *mockAccountStore {
	t.Helper()
	store := newMockAccountStore()
	acct := account.Account{
		ID:        "u1",
		Username:  "alice",
		Email:     "alice@test.com",
		IsTrainer: trainer,
		CreatedAt: fixedTime,
	}
	if err := acct.SetPassword(password); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	store.accounts["u1"] = acct
	return store
}

// TestExecuteLogin_Valid tests logging in with correct credentials.
func TestExecuteLogin_Valid(t *testing.T) {
	store := seedLoginAccount(t, "supersecret", false)

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "alice",
		Password: "supersecret",
	}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccountID != "u1" {
		t.Errorf("AccountID = %q, want u1", result.AccountID)
	}
	if result.Role != account.RoleMember {
		t.Errorf("Role = %q, want %q", result.Role, account.RoleMember)
	}
}

// TestExecuteLogin_TrainerRole tests that trainer accounts report the trainer role.
func TestExecuteLogin_TrainerRole(t *testing.T) {
	store := seedLoginAccount(t, "supersecret", true)

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "alice",
		Password: "supersecret",
	}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Role != account.RoleTrainer {
		t.Errorf("Role = %q, want %q", result.Role, account.RoleTrainer)
	}
}

// TestExecuteLogin_WrongPassword tests that a bad password is rejected and counted.
func TestExecuteLogin_WrongPassword(t *testing.T) {
	store := seedLoginAccount(t, "supersecret", false)

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "alice",
		Password: "wrongwrong",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if store.accounts["u1"].FailedLogins != 1 {
		t.Errorf("FailedLogins = %d, want 1", store.accounts["u1"].FailedLogins)
	}
}

// TestExecuteLogin_UnknownUser tests that a missing user yields the same error
// as a wrong password.
func TestExecuteLogin_UnknownUser(t *testing.T) {
	store := newMockAccountStore()

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "ghost",
		Password: "supersecret",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// TestExecuteLogin_EmptyInput tests that blank credentials are rejected outright.
func TestExecuteLogin_EmptyInput(t *testing.T) {
	store := seedLoginAccount(t, "supersecret", false)

	for _, input := range []LoginInput{
		{},
		{Username: "alice"},
		{Password: "supersecret"},
	} {
		if _, err := ExecuteLogin(context.Background(), input, LoginDeps{AccountStore: store}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("input %+v: expected ErrInvalidCredentials, got %v", input, err)
		}
	}
}

// TestExecuteLogin_Lockout tests that five failures lock the account.
func TestExecuteLogin_Lockout(t *testing.T) {
	store := seedLoginAccount(t, "supersecret", false)

	for i := 0; i < 5; i++ {
		ExecuteLogin(context.Background(), LoginInput{Username: "alice", Password: "wrongwrong"}, LoginDeps{AccountStore: store})
	}

	// Even the correct password is refused while locked
	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "alice",
		Password: "supersecret",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrAccountLocked) {
		t.Errorf("expected ErrAccountLocked, got %v", err)
	}
}

// TestExecuteLogin_SuccessResetsFailures tests the failure counter reset.
func TestExecuteLogin_SuccessResetsFailures(t *testing.T) {
	store := seedLoginAccount(t, "supersecret", false)

	acct := store.accounts["u1"]
	acct.FailedLogins = 3
	store.accounts["u1"] = acct

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "alice",
		Password: "supersecret",
	}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.accounts["u1"].FailedLogins != 0 {
		t.Errorf("FailedLogins = %d, want 0 after success", store.accounts["u1"].FailedLogins)
	}
	if !store.accounts["u1"].LockedUntil.IsZero() {
		t.Error("LockedUntil should be cleared after success")
	}
}

// TestExecuteLogin_ExpiredLock tests that a lock naturally expires.
func TestExecuteLogin_ExpiredLock(t *testing.T) {
	store := seedLoginAccount(t, "supersecret", false)

	acct := store.accounts["u1"]
	acct.FailedLogins = 5
	acct.LockedUntil = time.Now().Add(-time.Minute)
	store.accounts["u1"] = acct

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "alice",
		Password: "supersecret",
	}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Errorf("login after lock expiry should succeed, got %v", err)
	}
}
