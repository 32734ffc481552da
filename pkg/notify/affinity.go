package notify

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Dispatcher marshals work onto a logical owning thread. An entity bound to
// a dispatcher has all its notifications delivered through it, regardless of
// which goroutine performed the triggering mutation.
//
// Implementations must execute fn inline when Dispatch is called from the
// dispatcher's own thread, otherwise nested dispatch during a notification
// turn would deadlock. Loop honors this.
type Dispatcher interface {
	// Dispatch schedules fn to run on the dispatcher's thread of execution.
	Dispatch(fn func())
}

// Loop is a serial Dispatcher: a buffered function queue drained by a single
// goroutine. Dispatching from the loop goroutine itself executes inline, so
// an entity mutated from its own owning goroutine still delivers
// notifications without deadlocking.
type Loop struct {
	fns  chan func()
	done chan struct{}
	gid  atomic.Uint64

	closeOnce sync.Once
}

// NewLoop creates a loop with a queue of the given capacity.
// A capacity of 0 or less uses a default of 256.
func NewLoop(capacity ...int) *Loop {
	n := 256
	if len(capacity) > 0 && capacity[0] > 0 {
		n = capacity[0]
	}
	return &Loop{
		fns:  make(chan func(), n),
		done: make(chan struct{}),
	}
}

// Run drains the queue until Close is called. It blocks; callers normally
// start it on a dedicated goroutine, which becomes the loop's owning
// goroutine.
func (l *Loop) Run() {
	l.gid.Store(goroutineID())
	defer l.gid.Store(0)
	for {
		select {
		case fn := <-l.fns:
			fn()
		case <-l.done:
			// Drain what was queued before shutdown.
			for {
				select {
				case fn := <-l.fns:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Dispatch implements Dispatcher. Work submitted after Close runs inline on
// the caller's goroutine: the serial guarantee is gone by then, but callers
// blocked on the work's completion still make progress.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	if gid := l.gid.Load(); gid != 0 && gid == goroutineID() {
		fn()
		return
	}
	select {
	case <-l.done:
		fn()
		return
	default:
	}
	select {
	case l.fns <- fn:
	case <-l.done:
		fn()
	}
}

// Close stops the loop after the queued work drains. Safe to call more than
// once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// goroutineID extracts the current goroutine's id from the runtime stack
// header ("goroutine <id> ..."). Implementation detail; not exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}
