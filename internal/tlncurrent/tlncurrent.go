// Package tlncurrent provides the opt-in "current context" convenience the
// reference implementation makes mandatory: a process-wide pointer to one
// *engine.Engine, settable by SetCurrent and read by Current. It is a thin
// wrapper over an explicit handle, not the default way of using the
// engine: callers that want multiple engines side by side (tests,
// multi-window hosts) simply never call SetCurrent and thread
// *engine.Engine explicitly instead.
package tlncurrent

import (
	"sync"

	"scanforge/internal/engine"
)

var (
	mu      sync.Mutex
	current *engine.Engine
)

// SetCurrent installs e as the process-wide current engine. Pass nil to
// clear it.
func SetCurrent(e *engine.Engine) {
	mu.Lock()
	defer mu.Unlock()
	current = e
}

// Current returns the process-wide current engine, or nil if none has been
// set via SetCurrent.
func Current() *engine.Engine {
	mu.Lock()
	defer mu.Unlock()
	return current
}
