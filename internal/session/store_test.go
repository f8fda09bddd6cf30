package session

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if s, err := m.Get(ctx, 1); err != nil || s != nil {
		t.Fatalf("empty store: %v, %v", s, err)
	}

	want := Session{ChatID: 1, UserID: 10, Name: "Ana", Role: RoleAdmin, Token: "tok"}
	if err := m.Set(ctx, want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := m.Get(ctx, 1)
	if err != nil || got == nil || got.Token != "tok" || !got.IsAdmin() {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	// the returned session is a copy, not an alias into the store
	got.Token = "mutated"
	again, _ := m.Get(ctx, 1)
	if again.Token != "tok" {
		t.Fatal("store must not expose internal state")
	}

	if err := m.Clear(ctx, 1); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s, _ := m.Get(ctx, 1); s != nil {
		t.Fatalf("cleared session still present: %+v", s)
	}
}

func TestIsAdmin(t *testing.T) {
	var nilSession *Session
	if nilSession.IsAdmin() {
		t.Fatal("nil session is not admin")
	}
	if (&Session{Role: RoleUser}).IsAdmin() {
		t.Fatal("user role is not admin")
	}
	if !(&Session{Role: RoleAdmin}).IsAdmin() {
		t.Fatal("admin role must be admin")
	}
}
