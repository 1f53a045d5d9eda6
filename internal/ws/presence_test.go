package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresenceRegisterLookup(t *testing.T) {
	req := require.New(t)
	p := NewPresence()
	c := NewClient(nil, nil)

	_, ok := p.Lookup("alice")
	req.False(ok)

	p.Register("alice", c)
	got, ok := p.Lookup("alice")
	req.True(ok)
	req.Same(c, got)
}

func TestPresenceLastWriterWins(t *testing.T) {
	req := require.New(t)
	p := NewPresence()
	first := NewClient(nil, nil)
	second := NewClient(nil, nil)

	p.Register("alice", first)
	p.Register("alice", second)

	got, ok := p.Lookup("alice")
	req.True(ok)
	req.Same(second, got)
}

func TestPresenceUnregister(t *testing.T) {
	req := require.New(t)
	p := NewPresence()
	c := NewClient(nil, nil)

	p.Register("alice", c)
	p.Unregister(c)

	_, ok := p.Lookup("alice")
	req.False(ok)

	// Unregistering an unknown connection is a no-op.
	p.Unregister(NewClient(nil, nil))
}

// A stale connection's disconnect must not clear the registration a
// newer connection made for the same user (multi-tab).
func TestPresenceStaleUnregisterKeepsNewerRegistration(t *testing.T) {
	req := require.New(t)
	p := NewPresence()
	oldTab := NewClient(nil, nil)
	newTab := NewClient(nil, nil)

	p.Register("alice", oldTab)
	p.Register("alice", newTab)
	p.Unregister(oldTab)

	got, ok := p.Lookup("alice")
	req.True(ok)
	req.Same(newTab, got)
}

func TestPresenceRegisterIfAbsent(t *testing.T) {
	req := require.New(t)
	p := NewPresence()
	first := NewClient(nil, nil)
	second := NewClient(nil, nil)

	p.RegisterIfAbsent("alice", first)
	p.RegisterIfAbsent("alice", second)

	got, ok := p.Lookup("alice")
	req.True(ok)
	req.Same(first, got)
}

func TestPresenceReRegisterOtherUser(t *testing.T) {
	req := require.New(t)
	p := NewPresence()
	c := NewClient(nil, nil)

	p.Register("alice", c)
	p.Register("bob", c)

	_, ok := p.Lookup("alice")
	req.False(ok)
	got, ok := p.Lookup("bob")
	req.True(ok)
	req.Same(c, got)
}
