// Package tui provides a Bubble Tea terminal UI for the olympos engine.
package tui

// History is a fixed-size ring of submitted commands with cursor-based
// navigation, newest last.
type History struct {
	ring  []string
	start int // index of the oldest entry
	n     int
	// cursor counts back from the newest entry; -1 means not navigating.
	cursor int
}

// NewHistory creates a history holding at most size commands.
func NewHistory(size int) *History {
	return &History{ring: make([]string, max(size, 1)), cursor: -1}
}

// Len returns the number of stored commands.
func (h *History) Len() int {
	return h.n
}

// at returns the i-th entry, oldest first.
func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Push adds a command. A repeat of the newest entry is not stored twice;
// the oldest entry is overwritten once the ring is full.
func (h *History) Push(cmd string) {
	if h.n > 0 && h.at(h.n-1) == cmd {
		return
	}
	if h.n < len(h.ring) {
		h.ring[(h.start+h.n)%len(h.ring)] = cmd
		h.n++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Prev steps to the next older entry, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if h.n == 0 {
		return "", false
	}
	if h.cursor < h.n-1 {
		h.cursor++
	}
	return h.at(h.n - 1 - h.cursor), true
}

// Next steps to the next newer entry. Stepping past the newest returns
// false and leaves navigation.
func (h *History) Next() (string, bool) {
	if h.cursor <= 0 {
		h.cursor = -1
		return "", false
	}
	h.cursor--
	return h.at(h.n - 1 - h.cursor), true
}

// ResetCursor leaves navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}
