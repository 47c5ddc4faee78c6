package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// TestSessionStore_CreateAndGet tests the basic session round trip.
func TestSessionStore_CreateAndGet(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create("member-001", "alice", "member")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sess, ok := ss.Get(token)
	if !ok {
		t.Fatal("expected session to be found")
	}
	if sess.AccountID != "member-001" || sess.Username != "alice" || sess.Role != "member" {
		t.Errorf("got %+v, want member-001/alice/member", sess)
	}
}

// TestSessionStore_GetUnknownToken tests the miss path.
func TestSessionStore_GetUnknownToken(t *testing.T) {
	ss := NewSessionStore()
	if _, ok := ss.Get("no-such-token"); ok {
		t.Error("unknown token must not resolve to a session")
	}
}

// TestSessionStore_ExpiredSessionRemoved tests the 24h expiry.
func TestSessionStore_ExpiredSessionRemoved(t *testing.T) {
	ss := NewSessionStore()
	ss.sessions["stale"] = Session{
		AccountID: "member-001",
		Username:  "alice",
		Role:      "member",
		CreatedAt: time.Now().Add(-25 * time.Hour),
	}

	if _, ok := ss.Get("stale"); ok {
		t.Fatal("expired session must not be returned")
	}
	ss.mu.Lock()
	_, still := ss.sessions["stale"]
	ss.mu.Unlock()
	if still {
		t.Error("expired session should be removed from the store")
	}
}

// TestSessionStore_ConcurrentGetExpired hammers one expired token from many
// goroutines. Expiry mutates the map, so Get must hold the write lock; run
// with -race to catch a regression to a read lock.
func TestSessionStore_ConcurrentGetExpired(t *testing.T) {
	ss := NewSessionStore()
	ss.sessions["stale"] = Session{
		AccountID: "member-001",
		Username:  "alice",
		Role:      "member",
		CreatedAt: time.Now().Add(-25 * time.Hour),
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ss.Get("stale")
			}
		}()
	}
	wg.Wait()

	if _, ok := ss.Get("stale"); ok {
		t.Error("expired session must stay gone")
	}
}

// TestSessionStore_ConcurrentCreateAndGet mixes writers and readers.
func TestSessionStore_ConcurrentCreateAndGet(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create("member-001", "alice", "member")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := ss.Create("member-002", "bob", "member"); err != nil {
					t.Errorf("Create: %v", err)
					return
				}
				if _, ok := ss.Get(token); !ok {
					t.Error("live session disappeared")
					return
				}
			}
		}()
	}
	wg.Wait()
}

// TestRequireAuth_RedirectsAnonymous tests the guard on protected routes.
func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	called := false
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/dashboard/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if called {
		t.Error("handler must not run without a session")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login/" {
		t.Errorf("got redirect %q, want /login/", loc)
	}
}

// TestRequireAuth_PassesAuthenticated tests the pass-through path.
func TestRequireAuth_PassesAuthenticated(t *testing.T) {
	called := false
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/dashboard/", nil)
	ctx := ContextWithSession(req.Context(), Session{
		AccountID: "member-001", Username: "alice", Role: "member", CreatedAt: time.Now(),
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))

	if !called {
		t.Error("handler should run for an authenticated request")
	}
}

// TestIsTrainer tests role detection from context.
func TestIsTrainer(t *testing.T) {
	trainerCtx := ContextWithSession(httptest.NewRequest("GET", "/", nil).Context(), Session{
		AccountID: "trainer-001", Username: "coach", Role: "trainer", CreatedAt: time.Now(),
	})
	if !IsTrainer(trainerCtx) {
		t.Error("trainer session should report as trainer")
	}

	memberCtx := ContextWithSession(httptest.NewRequest("GET", "/", nil).Context(), Session{
		AccountID: "member-001", Username: "alice", Role: "member", CreatedAt: time.Now(),
	})
	if IsTrainer(memberCtx) {
		t.Error("member session must not report as trainer")
	}

	if IsTrainer(httptest.NewRequest("GET", "/", nil).Context()) {
		t.Error("anonymous context must not report as trainer")
	}
}
