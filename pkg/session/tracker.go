package session

import (
	"log/slog"

	"github.com/vango-dev/dhframe/pkg/registry"
)

// Tracker binds objects on behalf of sessions and flushes them on rerun.
type Tracker struct {
	// registry resolves the live registry on every call so a re-captured
	// execution root is picked up.
	registry func() *registry.Registry
	logger   *slog.Logger
}

// NewTracker creates a Tracker. resolve returns the registry to bind into;
// it may return nil until the first binding.
func NewTracker(resolve func() *registry.Registry, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		registry: resolve,
		logger:   logger.With("component", "session_tracker"),
	}
}

// BeginRerun removes every identifier pending in sc from the registry and
// clears the set. It returns the number of identifiers swept.
//
// Identifiers that are already gone are skipped silently.
func (t *Tracker) BeginRerun(sc *Context) int {
	sc.reruns++

	n := t.Flush(sc)
	if n > 0 {
		t.logger.Debug("flushed session bindings",
			"session_id", sc.id,
			"rerun", sc.reruns,
			"count", n)
	}
	return n
}

// Bind registers obj under id and marks id for removal on sc's next rerun.
func (t *Tracker) Bind(sc *Context, id string, obj any) {
	t.registry().Register(id, obj)
	sc.mark(id)

	t.logger.Debug("bound object",
		"session_id", sc.id,
		"id", id)
}

// Flush removes sc's pending bindings without starting a rerun.
// Used when a session ends.
func (t *Tracker) Flush(sc *Context) int {
	ids := sc.drain()
	if len(ids) == 0 {
		return 0
	}
	reg := t.registry()
	if reg == nil {
		return 0
	}
	for _, id := range ids {
		reg.Remove(id)
	}
	return len(ids)
}
