package router

import "testing"

func TestPaths(t *testing.T) {
	tests := []struct {
		dest Destination
		want string
	}{
		{Home, "/"},
		{Login, "/auth"},
		{Profile("u1"), "/profile/u1"},
		{Profile("a b"), "/profile/a%20b"},
		{TemplateCreate, "/template/create"},
		{Destination{Kind: "bogus"}, "/"},
	}
	for _, tt := range tests {
		if got := tt.dest.Path(); got != tt.want {
			t.Errorf("%v.Path() = %q, want %q", tt.dest.Kind, got, tt.want)
		}
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory()
	if h.Current() != Home {
		t.Fatalf("history should start at home, got %v", h.Current())
	}

	h.Navigate(Profile("u1"))
	h.Navigate(Profile("u1"))
	h.Navigate(TemplateCreate)
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	if h.Current() != TemplateCreate {
		t.Errorf("Current() = %v", h.Current())
	}

	if got := h.Back(); got != Profile("u1") {
		t.Errorf("Back() = %v", got)
	}
	h.Back()
	if got := h.Back(); got != Home {
		t.Errorf("Back() past the start = %v, want home", got)
	}
}

var _ Router = (*History)(nil)
