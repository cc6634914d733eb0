package monitor

import "github.com/couchcryptid/nws-alert-monitor/internal/domain"

// noCursor marks a cursor over an empty history.
const noCursor = -1

// history is a bounded FIFO of announced alerts plus a browsing cursor.
// Callers hold State.mu.
type history struct {
	capacity int
	alerts   []domain.NotifiedAlert
	cursor   int
}

func newHistory(capacity int) *history {
	return &history{
		capacity: capacity,
		alerts:   make([]domain.NotifiedAlert, 0, capacity+1),
		cursor:   noCursor,
	}
}

// push appends a, evicting the oldest entry when over capacity, and moves
// the cursor to the newest entry.
func (h *history) push(a domain.NotifiedAlert) {
	h.alerts = append(h.alerts, a)
	if len(h.alerts) > h.capacity {
		h.alerts = append(h.alerts[:0], h.alerts[len(h.alerts)-h.capacity:]...)
	}
	h.cursor = len(h.alerts) - 1
}

func (h *history) previous() {
	if h.cursor > 0 {
		h.cursor--
	}
}

func (h *history) next() {
	if h.cursor < len(h.alerts)-1 {
		h.cursor++
	}
}

// current returns the entry under the cursor.
func (h *history) current() (domain.NotifiedAlert, bool) {
	if h.cursor < 0 || h.cursor >= len(h.alerts) {
		return domain.NotifiedAlert{}, false
	}
	return h.alerts[h.cursor], true
}
