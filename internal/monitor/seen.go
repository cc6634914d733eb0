package monitor

import "github.com/couchcryptid/nws-alert-monitor/internal/domain"

// seenSet records every alert identity that has been announced. With a
// limit of 0 it grows for the lifetime of the process; otherwise the least
// recently observed identity is forgotten once the limit is exceeded.
// Callers hold State.mu.
type seenSet struct {
	limit   int
	entries map[domain.Identity]*seenEntry
	head    *seenEntry // most recently observed
	tail    *seenEntry // least recently observed
}

type seenEntry struct {
	id   domain.Identity
	prev *seenEntry
	next *seenEntry
}

func newSeenSet(limit int) *seenSet {
	return &seenSet{
		limit:   limit,
		entries: make(map[domain.Identity]*seenEntry),
	}
}

// contains reports membership and refreshes the entry so identities still on
// the feed are the last to be forgotten.
func (s *seenSet) contains(id domain.Identity) bool {
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	s.moveToFront(e)
	return true
}

// add inserts id. Adding an identity twice is a no-op.
func (s *seenSet) add(id domain.Identity) {
	if e, ok := s.entries[id]; ok {
		s.moveToFront(e)
		return
	}

	e := &seenEntry{id: id}
	s.entries[id] = e
	s.addToFront(e)

	if s.limit > 0 && len(s.entries) > s.limit {
		s.evictTail()
	}
}

func (s *seenSet) len() int { return len(s.entries) }

func (s *seenSet) moveToFront(e *seenEntry) {
	if e == s.head {
		return
	}
	s.remove(e)
	s.addToFront(e)
}

func (s *seenSet) addToFront(e *seenEntry) {
	e.next = s.head
	e.prev = nil
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *seenSet) remove(e *seenEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
}

func (s *seenSet) evictTail() {
	if s.tail == nil {
		return
	}
	delete(s.entries, s.tail.id)
	s.remove(s.tail)
}
