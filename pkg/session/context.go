package session

import "sync"

// Context is the server-side state of one browser session.
//
// A Context is owned by the goroutine running that session's rerun and is
// not safe for concurrent use. Hosts that can receive two reruns of the
// same session at once hold Lock for the duration of each rerun.
type Context struct {
	mu      sync.Mutex
	id      string
	pending []string
	reruns  uint64
	ended   bool
}

// NewContext creates an empty session context.
func NewContext(id string) *Context {
	return &Context{id: id}
}

// ID returns the session identifier.
func (c *Context) ID() string {
	return c.id
}

// Pending returns a copy of the identifiers that the next rerun will remove.
func (c *Context) Pending() []string {
	out := make([]string, len(c.pending))
	copy(out, c.pending)
	return out
}

// Reruns returns how many reruns have begun for this session.
func (c *Context) Reruns() uint64 {
	return c.reruns
}

// Lock acquires exclusive ownership of the session for one rerun.
func (c *Context) Lock() {
	c.mu.Lock()
}

// Unlock releases the ownership taken by Lock.
func (c *Context) Unlock() {
	c.mu.Unlock()
}

// Ended reports whether the manager has ended the session. A rerun that
// finds its session ended must not bind anything into it. The caller must
// hold Lock.
func (c *Context) Ended() bool {
	return c.ended
}

func (c *Context) mark(id string) {
	c.pending = append(c.pending, id)
}

// drain returns the pending identifiers and clears the set.
func (c *Context) drain() []string {
	ids := c.pending
	c.pending = nil
	return ids
}
