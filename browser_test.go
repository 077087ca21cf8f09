package paperwhite

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Current(); ok {
		t.Error("empty history should have no current entry")
	}
	if h.CanBack() || h.CanForward() {
		t.Error("empty history should not navigate")
	}
	if _, ok := h.Back(); ok {
		t.Error("Back on empty history should fail")
	}
	if _, ok := h.Forward(); ok {
		t.Error("Forward on empty history should fail")
	}
}

func TestHistoryVisitAndBack(t *testing.T) {
	h := NewHistory()
	h.Visit("https://a.test/")
	h.Visit("https://b.test/")
	h.Visit("https://c.test/")

	if cur, _ := h.Current(); cur != "https://c.test/" {
		t.Errorf("Current = %q", cur)
	}
	if !h.CanBack() || h.CanForward() {
		t.Error("expected back-only navigation at the tip")
	}

	if got, _ := h.Back(); got != "https://b.test/" {
		t.Errorf("Back = %q", got)
	}
	if got, _ := h.Back(); got != "https://a.test/" {
		t.Errorf("Back = %q", got)
	}
	if h.CanBack() {
		t.Error("at the oldest entry CanBack should be false")
	}
	if got, _ := h.Forward(); got != "https://b.test/" {
		t.Errorf("Forward = %q", got)
	}
}

func TestHistoryVisitTruncatesForward(t *testing.T) {
	h := NewHistory()
	h.Visit("https://a.test/")
	h.Visit("https://b.test/")
	h.Visit("https://c.test/")
	h.Back()
	h.Back()

	// Navigating from a mid-history position drops b and c.
	h.Visit("https://d.test/")
	if h.CanForward() {
		t.Error("forward stack should be empty after Visit")
	}
	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
	if got, _ := h.Back(); got != "https://a.test/" {
		t.Errorf("Back = %q", got)
	}
}

func TestHistoryCapsEntries(t *testing.T) {
	h := NewHistory()
	for i := 0; i < maxHistoryEntries+10; i++ {
		h.Visit(fmt.Sprintf("https://example.com/%d", i))
	}
	if h.Len() != maxHistoryEntries {
		t.Errorf("Len = %d, want %d", h.Len(), maxHistoryEntries)
	}
	if cur, _ := h.Current(); cur != fmt.Sprintf("https://example.com/%d", maxHistoryEntries+9) {
		t.Errorf("Current = %q", cur)
	}
}

func TestHistoryJSONRoundTrip(t *testing.T) {
	h := NewHistory()
	h.Visit("https://a.test/")
	h.Visit("https://b.test/")
	h.Back()

	raw, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := NewHistory()
	if err := json.Unmarshal(raw, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cur, _ := restored.Current(); cur != "https://a.test/" {
		t.Errorf("Current after round trip = %q", cur)
	}
	if !restored.CanForward() {
		t.Error("forward stack lost in round trip")
	}
}

func TestHistoryJSONRejectsBadCursor(t *testing.T) {
	restored := NewHistory()
	if err := json.Unmarshal([]byte(`{"entries":["https://a.test/"],"pos":7}`), restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restored.Len() != 0 {
		t.Error("out-of-range cursor should reset to an empty history")
	}
}

func TestSafeBrowseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/page", "https://example.com/page"},
		{"http://example.com", "http://example.com"},
		{"  https://example.com  ", "https://example.com"},
		{"javascript:alert(1)", ""},
		{"ftp://example.com", ""},
		{"/relative", ""},
		{"", ""},
		{"https://", ""},
	}
	for _, tt := range tests {
		if got := SafeBrowseURL(tt.in); got != tt.want {
			t.Errorf("SafeBrowseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
