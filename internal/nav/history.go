package nav

// History is a stack of visited routes. The first entry is never popped.
type History struct {
	entries []Route
}

// NewHistory starts a history at path.
func NewHistory(path string) *History {
	return &History{entries: []Route{Parse(path)}}
}

// Push navigates to path and returns the new current route.
func (h *History) Push(path string) Route {
	r := Parse(path)
	h.entries = append(h.entries, r)
	return r
}

// Back returns to the previous entry. It reports false when already at the first entry.
func (h *History) Back() (Route, bool) {
	if len(h.entries) <= 1 {
		return h.Current(), false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.Current(), true
}

// Current returns the route being shown.
func (h *History) Current() Route {
	return h.entries[len(h.entries)-1]
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}
