package tui

// refetchMsg re-enters the event loop when a debounced filter change has
// quiesced and the list needs a clean page-1 reload.
type refetchMsg struct{}

// storeChangedMsg is sent whenever the list store mutates, so optimistic
// writes and rollbacks repaint without waiting for a command result.
type storeChangedMsg struct{}

// loadDoneMsg carries the result of an initial load or reload.
type loadDoneMsg struct {
	err error
}

// loadMoreDoneMsg carries the result of a next-page fetch.
type loadMoreDoneMsg struct {
	err error
}

// mutationDoneMsg carries the result of a toggle or delete.
type mutationDoneMsg struct {
	err  error
	verb string
	name string
}

// clearToastMsg expires the toast with the matching sequence number. A
// toast shown after this one was scheduled keeps the line.
type clearToastMsg struct {
	seq int
}
