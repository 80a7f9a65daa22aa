package router

import "github.com/safezone-app/navguard"

// Entry is one back-stack frame: the route name plus the params it was
// rendered with, so Back can re-evaluate and re-render the same screen.
type Entry struct {
	Route  string
	Params map[string]string
}

// History is the navigation back stack. It is not safe for concurrent use
// on its own; the Router serializes access.
type History struct {
	entries []Entry
}

// Push appends a frame.
func (h *History) Push(routeName string, params map[string]string) {
	h.entries = append(h.entries, Entry{Route: routeName, Params: params})
}

// Pop removes and returns the top frame.
func (h *History) Pop() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	top := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return top, true
}

// Peek returns the top frame without removing it.
func (h *History) Peek() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Len returns the stack depth.
func (h *History) Len() int {
	return len(h.entries)
}

// Routes returns the route names bottom-up. The copy is for inspection;
// mutating it does not touch the stack.
func (h *History) Routes() []string {
	names := make([]string, len(h.entries))
	for i, e := range h.entries {
		names[i] = e.Route
	}
	return names
}

// Truncate applies a decision's truncation policy. anchor names the entry
// TruncateToVerificationEntry cuts back to; when the anchor is not on the
// stack the whole stack goes, same as TruncateAll.
func (h *History) Truncate(policy navguard.TruncatePolicy, anchor string) {
	switch policy {
	case navguard.TruncateNone:
	case navguard.TruncateAll:
		h.entries = nil
	case navguard.TruncateToRoot:
		if len(h.entries) > 1 {
			h.entries = h.entries[:1]
		}
	case navguard.TruncateToVerificationEntry:
		for i := len(h.entries) - 1; i >= 0; i-- {
			if h.entries[i].Route == anchor {
				h.entries = h.entries[:i+1]
				return
			}
		}
		h.entries = nil
	}
}
