package monitor

import (
	"sync"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
)

// State is the application state shared by the poll loop and the
// presentation surface: per-category history and cursor, the set of
// announced identities, and the global mute flag.
type State struct {
	mu        sync.RWMutex
	histories map[domain.Category]*history
	seen      *seenSet
	muted     bool
}

// CategoryView is a read-only snapshot of one category panel.
type CategoryView struct {
	Category domain.Category       `json:"category"`
	Label    string                `json:"label"`
	Color    string                `json:"color"`
	Cursor   int                   `json:"cursor"`
	Size     int                   `json:"size"`
	Text     string                `json:"text"`
	Current  *domain.NotifiedAlert `json:"current,omitempty"`
}

// New creates a State with empty histories of the given capacity. seenLimit
// bounds the seen set; 0 leaves it unbounded.
func New(historySize, seenLimit int, muted bool) *State {
	s := &State{
		histories: make(map[domain.Category]*history, len(domain.Categories)),
		seen:      newSeenSet(seenLimit),
		muted:     muted,
	}
	for _, c := range domain.Categories {
		s.histories[c] = newHistory(historySize)
	}
	return s
}

// Seen reports whether an alert with this identity was already announced.
func (s *State) Seen(id domain.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen.contains(id)
}

// Record appends a newly announced alert to its category history, points the
// cursor at it and marks its identity seen.
func (s *State) Record(a domain.NotifiedAlert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.histories[a.Category]; ok {
		h.push(a)
	}
	s.seen.add(a.Identity())
}

// Previous moves the category cursor one entry back, stopping at the oldest.
func (s *State) Previous(c domain.Category) CategoryView {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.histories[c]
	if !ok {
		return CategoryView{Category: c, Cursor: noCursor}
	}
	h.previous()
	return viewOf(c, h)
}

// Next moves the category cursor one entry forward, stopping at the newest.
func (s *State) Next(c domain.Category) CategoryView {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.histories[c]
	if !ok {
		return CategoryView{Category: c, Cursor: noCursor}
	}
	h.next()
	return viewOf(c, h)
}

// View returns the current panel snapshot of a category.
func (s *State) View(c domain.Category) CategoryView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.histories[c]
	if !ok {
		return CategoryView{Category: c, Cursor: noCursor}
	}
	return viewOf(c, h)
}

// Views returns every category panel in display order.
func (s *State) Views() []CategoryView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CategoryView, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, viewOf(c, s.histories[c]))
	}
	return out
}

// Size returns the number of alerts held for c.
func (s *State) Size(c domain.Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if h, ok := s.histories[c]; ok {
		return len(h.alerts)
	}
	return 0
}

// History returns a copy of the category history, oldest first.
func (s *State) History(c domain.Category) []domain.NotifiedAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.histories[c]
	if !ok {
		return nil
	}
	out := make([]domain.NotifiedAlert, len(h.alerts))
	copy(out, h.alerts)
	return out
}

// AnyActive reports whether any category holds history.
func (s *State) AnyActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, h := range s.histories {
		if len(h.alerts) > 0 {
			return true
		}
	}
	return false
}

// SeenCount returns the number of remembered identities.
func (s *State) SeenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seen.len()
}

// Muted reports whether sound playback is disabled.
func (s *State) Muted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted
}

// SetMuted sets the mute flag.
func (s *State) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

// ToggleMute flips the mute flag and returns the new value.
func (s *State) ToggleMute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = !s.muted
	return s.muted
}

func viewOf(c domain.Category, h *history) CategoryView {
	v := CategoryView{
		Category: c,
		Label:    c.Label(),
		Color:    c.Color(),
		Cursor:   h.cursor,
		Size:     len(h.alerts),
		Text:     domain.NoActiveAlerts,
	}
	if a, ok := h.current(); ok {
		v.Current = &a
		v.Text = a.Text()
	}
	return v
}
