package ws

import "sync"

// Presence tracks which connection currently speaks for a user. At
// most one connection is registered per user; a new registration for
// the same user replaces the old one (last writer wins). The reverse
// map makes Unregister O(1) and guarantees a stale connection's
// disconnect can never clear a newer registration.
type Presence struct {
	mu     sync.RWMutex
	byUser map[string]*Client
	byConn map[*Client]string
}

func NewPresence() *Presence {
	return &Presence{
		byUser: make(map[string]*Client),
		byConn: make(map[*Client]string),
	}
}

// Register binds userID to c, replacing any previous binding for the
// user. The replaced connection is not closed here; it simply stops
// being the user's presence handle.
func (p *Presence) Register(userID string, c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old, ok := p.byUser[userID]; ok && old != c {
		delete(p.byConn, old)
	}
	if prev, ok := p.byConn[c]; ok && prev != userID {
		delete(p.byUser, prev)
	}
	p.byUser[userID] = c
	p.byConn[c] = userID
}

// RegisterIfAbsent binds userID to c only if the user has no live
// registration. Used as the join-side fallback when the explicit
// register event was missed.
func (p *Presence) RegisterIfAbsent(userID string, c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byUser[userID]; ok {
		return
	}
	if prev, ok := p.byConn[c]; ok && prev != userID {
		delete(p.byUser, prev)
	}
	p.byUser[userID] = c
	p.byConn[c] = userID
}

// Lookup returns the live connection for userID, if any.
func (p *Presence) Lookup(userID string) (*Client, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.byUser[userID]
	return c, ok
}

// Unregister removes c's binding. A no-op when c was already replaced
// by a newer connection for the same user.
func (p *Presence) Unregister(c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	uid, ok := p.byConn[c]
	if !ok {
		return
	}
	delete(p.byConn, c)
	if p.byUser[uid] == c {
		delete(p.byUser, uid)
	}
}
