package session

import (
	"errors"
	"testing"
)

func TestInitial(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    string
	}{
		{"email", Session{UID: "u1", Email: "ada@example.com"}, "A"},
		{"display name fallback", Session{UID: "u1", DisplayName: "grace"}, "G"},
		{"uid fallback", Session{UID: "zed"}, "Z"},
		{"nothing", Session{}, "?"},
		{"unicode", Session{Email: "émile@example.com"}, "É"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Initial(); got != tt.want {
				t.Errorf("Initial() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStateStrings(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Loading{}, "loading"},
		{Anonymous{}, "anonymous"},
		{Anonymous{Err: errors.New("boom")}, "anonymous (boom)"},
		{Authenticated{Session: Session{UID: "u1"}}, "authenticated(u1)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCurrent(t *testing.T) {
	if _, ok := Current(Loading{}); ok {
		t.Error("Loading has no session")
	}
	if _, ok := Current(Anonymous{}); ok {
		t.Error("Anonymous has no session")
	}
	s, ok := Current(Authenticated{Session: Session{UID: "u1"}})
	if !ok || s.UID != "u1" {
		t.Errorf("Current() = %+v, %v", s, ok)
	}
}

func TestAllowlist(t *testing.T) {
	a := NewAllowlist([]string{"admin-1", "", "admin-2"})
	tests := []struct {
		uid  string
		want bool
	}{
		{"admin-1", true},
		{"admin-2", true},
		{"user", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := a.IsAdmin(tt.uid); got != tt.want {
			t.Errorf("IsAdmin(%q) = %v, want %v", tt.uid, got, tt.want)
		}
	}

	var none Allowlist
	if none.IsAdmin("admin-1") {
		t.Error("nil allowlist should have no admins")
	}
}
