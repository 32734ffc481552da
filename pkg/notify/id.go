package notify

import "sync/atomic"

// handleCounter generates unique listener handles across all entities.
var handleCounter atomic.Uint64

// nextHandle returns a new unique handle.
// Handles are never reused within a process.
func nextHandle() Handle {
	return Handle(handleCounter.Add(1))
}

// NewHandle allocates a process-unique Handle for entities that keep their
// own typed listener lists alongside a Notifier, so handles from either
// list never collide.
func NewHandle() Handle {
	return nextHandle()
}
