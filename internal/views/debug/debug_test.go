package debug

import (
	"strings"
	"testing"
	"time"
)

func TestAddEntry(t *testing.T) {
	m := New()
	m.Add(KindIdP, "signed in")
	if len(m.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m.Entries))
	}
	if m.Entries[0].Kind != KindIdP {
		t.Errorf("expected kind %q, got %q", KindIdP, m.Entries[0].Kind)
	}
}

func TestAddUsesClock(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	m := New()
	m.now = func() time.Time { return at }
	m.Addf(KindNav, "navigate %s", "/auth")
	if !m.Entries[0].Time.Equal(at) {
		t.Errorf("expected %v, got %v", at, m.Entries[0].Time)
	}
	if m.Entries[0].Message != "navigate /auth" {
		t.Errorf("unexpected message %q", m.Entries[0].Message)
	}
}

func TestZeroValueAdd(t *testing.T) {
	var m Model
	m.Add(KindErr, "boom")
	if m.Entries[0].Time.IsZero() {
		t.Error("zero value model should still stamp entries")
	}
}

func TestMaxEntries(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+50; i++ {
		m.Add(KindAnim, "frame")
	}
	if len(m.Entries) != maxEntries {
		t.Errorf("expected %d entries, got %d", maxEntries, len(m.Entries))
	}
}

func TestScroll(t *testing.T) {
	m := New()
	for i := 0; i < 20; i++ {
		m.Add(KindFilter, "term")
	}

	m.ScrollUp(5)
	if m.Offset != 5 {
		t.Errorf("expected offset 5, got %d", m.Offset)
	}
	m.ScrollDown(3)
	if m.Offset != 2 {
		t.Errorf("expected offset 2, got %d", m.Offset)
	}
	m.ScrollDown(10)
	if m.Offset != 0 {
		t.Errorf("expected offset 0, got %d", m.Offset)
	}
	m.ScrollUp(100)
	if m.Offset != 19 {
		t.Errorf("expected offset capped at 19, got %d", m.Offset)
	}

	m.Add(KindFilter, "new")
	if m.Offset != 0 {
		t.Error("adding an entry should reset scroll")
	}
}

func TestViewEmpty(t *testing.T) {
	v := New().View(80, 20)
	if !strings.Contains(v, "No events") {
		t.Error("empty view should say there are no events")
	}
}

func TestViewWithEntries(t *testing.T) {
	m := New()
	m.Add(KindIdP, "authenticated(u1)")
	m.Add(KindErr, "sign out failed")
	v := m.View(80, 20)
	for _, want := range []string{"authenticated(u1)", "sign out failed", "2 entries"} {
		if !strings.Contains(v, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestViewTruncatesLongMessages(t *testing.T) {
	m := New()
	m.Add(KindNav, strings.Repeat("x", 300))
	v := m.View(60, 20)
	if strings.Contains(v, strings.Repeat("x", 100)) {
		t.Error("long message should be truncated")
	}
	if !strings.Contains(v, "...") {
		t.Error("truncated message should end with an ellipsis")
	}
}
