package cart

import "sync"

// Store keeps one in-memory cart per browser session. Nothing is persisted;
// a cart lives as long as the process and the session cookie do. The mutex
// guards the map and the carts themselves: handler goroutines for the same
// session must never observe a line in a torn state.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: map[string]*Cart{}}
}

// Mutate runs fn against the session's cart, creating it on first use.
func (s *Store) Mutate(sessionID string, fn func(c *Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{}
		s.carts[sessionID] = c
	}
	fn(c)
}

// View runs fn against a snapshot-safe view of the session's cart without
// creating one for sessions that never added anything.
func (s *Store) View(sessionID string, fn func(c *Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{}
	}
	fn(c)
}

// Snapshot returns the session's lines in insertion order.
func (s *Store) Snapshot(sessionID string) []Line {
	var lines []Line
	s.View(sessionID, func(c *Cart) { lines = c.Snapshot() })
	return lines
}

// ItemCount returns the badge value for the session.
func (s *Store) ItemCount(sessionID string) int {
	var n int
	s.View(sessionID, func(c *Cart) { n = c.ItemCount() })
	return n
}

// Total returns the grand total for the session.
func (s *Store) Total(sessionID string) int64 {
	var total int64
	s.View(sessionID, func(c *Cart) { total = c.Total() })
	return total
}

// Clear empties the session's cart after a completed handoff.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
