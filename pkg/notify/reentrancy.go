package notify

import "sync"

// ReentrancyGuard is a per-goroutine dispatch depth counter. An entity
// enters the guard for the duration of its notification dispatch and asks
// Active before a structural mutation: a handler synchronously mutating the
// entity it is being notified about runs on the dispatching goroutine and
// is caught, while writers on other goroutines are unaffected.
//
// The guard is entered only after the entity's write lock is released, so a
// handler may safely re-read the entity while mutation stays forbidden.
type ReentrancyGuard struct {
	depths sync.Map // goroutine id -> int
}

// Enter raises the dispatch depth for the current goroutine.
func (g *ReentrancyGuard) Enter() {
	gid := goroutineID()
	depth := 0
	if v, ok := g.depths.Load(gid); ok {
		depth = v.(int)
	}
	g.depths.Store(gid, depth+1)
}

// Exit lowers the dispatch depth for the current goroutine. Must pair with
// Enter on every exit path; callers defer it.
func (g *ReentrancyGuard) Exit() {
	gid := goroutineID()
	v, ok := g.depths.Load(gid)
	if !ok {
		return
	}
	if depth := v.(int); depth > 1 {
		g.depths.Store(gid, depth-1)
	} else {
		g.depths.Delete(gid)
	}
}

// Active reports whether the current goroutine is inside a dispatch.
func (g *ReentrancyGuard) Active() bool {
	_, ok := g.depths.Load(goroutineID())
	return ok
}
