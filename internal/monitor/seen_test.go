package monitor

import (
	"testing"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/stretchr/testify/assert"
)

func id(h string) domain.Identity { return domain.Identity{Headline: h, Description: "d"} }

func TestSeenSet_Unbounded(t *testing.T) {
	s := newSeenSet(0)
	for _, h := range []string{"a", "b", "c", "d"} {
		s.add(id(h))
	}
	assert.Equal(t, 4, s.len())
	assert.True(t, s.contains(id("a")))
}

func TestSeenSet_AddTwice(t *testing.T) {
	s := newSeenSet(0)
	s.add(id("a"))
	s.add(id("a"))
	assert.Equal(t, 1, s.len())
}

func TestSeenSet_IdentityIsHeadlineAndDescription(t *testing.T) {
	s := newSeenSet(0)
	s.add(domain.Identity{Headline: "h", Description: "d1"})
	assert.False(t, s.contains(domain.Identity{Headline: "h", Description: "d2"}))
}

func TestSeenSet_LimitEvictsLeastRecent(t *testing.T) {
	s := newSeenSet(2)
	s.add(id("a"))
	s.add(id("b"))
	s.add(id("c")) // evicts "a"

	assert.False(t, s.contains(id("a")))
	assert.True(t, s.contains(id("b")))
	assert.True(t, s.contains(id("c")))
	assert.Equal(t, 2, s.len())
}

func TestSeenSet_ContainsRefreshesEntry(t *testing.T) {
	s := newSeenSet(2)
	s.add(id("a"))
	s.add(id("b"))

	// "a" is still on the feed.
	s.contains(id("a"))
	s.add(id("c"))

	assert.True(t, s.contains(id("a")))
	assert.False(t, s.contains(id("b")))
}
