package notify

import "sync/atomic"

// Disposable is the capability interface for values that own releasable
// resources. Set's WithDisposePrevious option disposes the outgoing value
// through it.
type Disposable interface {
	Dispose() error
}

// LifecycleState is the tri-state lifecycle of a disposal-capable entity.
type LifecycleState int32

const (
	// Live is the initial state.
	Live LifecycleState = iota
	// Disposing means Dispose is running: the before-dispose notification
	// fired but the release function has not finished.
	Disposing
	// Disposed is terminal.
	Disposed
)

// String returns a human-readable name for the state.
func (s LifecycleState) String() string {
	switch s {
	case Live:
		return "live"
	case Disposing:
		return "disposing"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// DisposeMember is the member name carried by dispose notifications.
const DisposeMember = "Dispose"

// LifecycleNotifier is a disposal-capable observable entity: a Notifier
// extended with a tri-state lifecycle and a before/after-dispose
// notification pair fired exactly once on the transition from Live to
// Disposed. There is no finalizer path; release happens only through the
// explicit Dispose call, so handlers never observe a partially torn-down
// entity.
type LifecycleNotifier struct {
	Notifier

	state     atomic.Int32
	disposing listenerList
	disposed  listenerList
}

// NewLifecycleNotifier creates a LifecycleNotifier reporting sender to
// listeners.
func NewLifecycleNotifier(sender any) *LifecycleNotifier {
	n := &LifecycleNotifier{}
	n.SetSender(sender)
	return n
}

// State returns the current lifecycle state.
func (n *LifecycleNotifier) State() LifecycleState {
	return LifecycleState(n.state.Load())
}

// AttachDisposing adds a before-dispose listener.
func (n *LifecycleNotifier) AttachDisposing(fn Handler) Handle {
	return n.disposing.attach(fn)
}

// DetachDisposing removes a before-dispose listener. No-op if absent.
func (n *LifecycleNotifier) DetachDisposing(h Handle) {
	n.disposing.detach(h)
}

// AttachDisposed adds an after-dispose listener.
func (n *LifecycleNotifier) AttachDisposed(fn Handler) Handle {
	return n.disposed.attach(fn)
}

// DetachDisposed removes an after-dispose listener. No-op if absent.
func (n *LifecycleNotifier) DetachDisposed(h Handle) {
	n.disposed.detach(h)
}

// Dispose runs the entity through its lifecycle exactly once: the
// before-dispose notification fires, release runs (nil release is
// permitted), the state becomes Disposed, and the after-dispose
// notification fires. Later calls are no-ops returning nil.
//
// Listener failures and the release error are collected and returned as a
// single *AggregateError; none of them stops the transition. The state is
// guaranteed to reach Disposed on every exit path.
func (n *LifecycleNotifier) Dispose(release func() error) error {
	if !n.state.CompareAndSwap(int32(Live), int32(Disposing)) {
		return nil
	}
	defer n.state.Store(int32(Disposed))

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	sender := n.Sender()
	collect(Marshal(n.BoundDispatcher(), func() error {
		return dispatch(n.disposing.snapshot(), sender, Change{Name: DisposeMember, Timing: Before})
	}))

	if release != nil {
		collect(Guard(func() {
			if err := release(); err != nil {
				collect(err)
			}
		}))
	}

	n.state.Store(int32(Disposed))
	collect(Marshal(n.BoundDispatcher(), func() error {
		return dispatch(n.disposed.snapshot(), sender, Change{Name: DisposeMember, Timing: After})
	}))

	return Aggregate(errs...)
}
