package paperwhite

import (
	"encoding/json"
	"net/url"
	"strings"
)

// History is the in-page browser's navigation bookkeeping: a stack of
// visited URLs with a cursor. It is per-visitor and round-trips through
// the session cookie as JSON; it has no concurrency contract of its own.
type History struct {
	entries []string
	pos     int // index of the current entry, -1 when empty
}

// maxHistoryEntries bounds the stack so the session cookie stays small.
// When full, the oldest entry falls off the bottom.
const maxHistoryEntries = 50

// NewHistory returns an empty navigation history.
func NewHistory() *History {
	return &History{pos: -1}
}

// Visit records a navigation to rawURL. Any forward entries beyond the
// cursor are discarded, like a real browser after navigating from a
// mid-history position.
func (h *History) Visit(rawURL string) {
	h.entries = append(h.entries[:h.pos+1], rawURL)
	if len(h.entries) > maxHistoryEntries {
		h.entries = h.entries[len(h.entries)-maxHistoryEntries:]
	}
	h.pos = len(h.entries) - 1
}

// Current returns the URL under the cursor.
func (h *History) Current() (string, bool) {
	if h.pos < 0 {
		return "", false
	}
	return h.entries[h.pos], true
}

// Back moves the cursor one entry back and returns the new current URL.
func (h *History) Back() (string, bool) {
	if !h.CanBack() {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Forward moves the cursor one entry forward and returns the new current URL.
func (h *History) Forward() (string, bool) {
	if !h.CanForward() {
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}

// CanBack reports whether a Back navigation is possible.
func (h *History) CanBack() bool {
	return h.pos > 0
}

// CanForward reports whether a Forward navigation is possible.
func (h *History) CanForward() bool {
	return h.pos >= 0 && h.pos < len(h.entries)-1
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}

// historyBlob is the session cookie shape of a History.
type historyBlob struct {
	Entries []string `json:"entries"`
	Pos     int      `json:"pos"`
}

// MarshalJSON implements json.Marshaler.
func (h *History) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyBlob{Entries: h.entries, Pos: h.pos})
}

// UnmarshalJSON implements json.Unmarshaler. A blob with an out-of-range
// cursor resets to an empty history rather than failing.
func (h *History) UnmarshalJSON(data []byte) error {
	var blob historyBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return err
	}
	if blob.Pos < -1 || blob.Pos >= len(blob.Entries) {
		h.entries = nil
		h.pos = -1
		return nil
	}
	h.entries = blob.Entries
	h.pos = blob.Pos
	return nil
}

// SafeBrowseURL validates a URL for the in-page browser frame. Only
// absolute http/https URLs survive; everything else collapses to "".
func SafeBrowseURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	parsed, err := url.Parse(val)
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		if parsed.Host == "" {
			return ""
		}
		return parsed.String()
	default:
		return ""
	}
}
