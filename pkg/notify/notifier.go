package notify

import "sync"

// Timing distinguishes the two phases of the change notification pair.
type Timing uint8

const (
	// Before is delivered immediately prior to the mutation.
	Before Timing = iota + 1
	// After is delivered immediately following the mutation.
	After
)

// String returns a human-readable name for the timing.
func (t Timing) String() string {
	switch t {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "unknown"
	}
}

// Change is the immutable payload delivered to change listeners.
type Change struct {
	// Name is the member name that is changing or changed. A trailing "[]"
	// marker denotes "some element of the indexed member identified by the
	// base name changed"; consumers treat the marker as a literal part of
	// the name, not as syntax to parse further.
	Name string

	// Timing reports whether this is the before- or after-change half of
	// the pair.
	Timing Timing
}

// Handler is a change notification listener.
type Handler func(sender any, change Change)

// Handle identifies an attached listener so it can be detached later.
type Handle uint64

// Observable is the notification subscription surface of an observable
// entity. Notifier implements it; composite entities usually expose it by
// embedding a Notifier.
type Observable interface {
	AttachChanging(fn Handler) Handle
	DetachChanging(h Handle)
	AttachChanged(fn Handler) Handle
	DetachChanged(h Handle)
}

// listenerList is an ordered multicast listener list.
// Dispatch iterates in attachment order over a snapshot taken under the
// read lock, so listeners never run while the lock is held.
type listenerList struct {
	mu   sync.RWMutex
	subs []listenerEntry
}

type listenerEntry struct {
	id Handle
	fn Handler
}

func (l *listenerList) attach(fn Handler) Handle {
	if fn == nil {
		return 0
	}
	h := nextHandle()
	l.mu.Lock()
	l.subs = append(l.subs, listenerEntry{id: h, fn: fn})
	l.mu.Unlock()
	return h
}

// detach removes the listener with the given handle.
// Detaching an absent handle is a no-op.
func (l *listenerList) detach(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.subs {
		if e.id == h {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			return
		}
	}
}

// snapshot copies the current listeners so dispatch can run lock-free.
func (l *listenerList) snapshot() []listenerEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.subs) == 0 {
		return nil
	}
	subs := make([]listenerEntry, len(l.subs))
	copy(subs, l.subs)
	return subs
}

// Notifier is an observable entity: two multicast listener lists bracketing
// field mutations. The zero value is ready to use and reports itself as the
// sender; NewNotifier sets an explicit sender, which is what embedding types
// normally want.
//
// Attach and detach may be called at any time from any goroutine. There is
// no closed state: a Notifier keeps accepting listeners for the life of the
// entity. Attaching or detaching from within a handler of the same entity
// races with the in-flight dispatch snapshot and is not supported.
type Notifier struct {
	sender     any
	changing   listenerList
	changed    listenerList
	dispatcher Dispatcher
}

// NewNotifier creates a Notifier that reports sender to listeners.
func NewNotifier(sender any) *Notifier {
	return &Notifier{sender: sender}
}

// SetSender sets the value reported to listeners as the notification sender.
// Intended for embedding types that cannot pass themselves at construction.
func (n *Notifier) SetSender(sender any) {
	n.sender = sender
}

// Sender returns the value reported to listeners, which is the Notifier
// itself when no explicit sender was set.
func (n *Notifier) Sender() any {
	if n.sender != nil {
		return n.sender
	}
	return n
}

// AttachChanging adds a before-change listener and returns its handle.
func (n *Notifier) AttachChanging(fn Handler) Handle {
	return n.changing.attach(fn)
}

// DetachChanging removes a before-change listener. No-op if absent.
func (n *Notifier) DetachChanging(h Handle) {
	n.changing.detach(h)
}

// AttachChanged adds an after-change listener and returns its handle.
func (n *Notifier) AttachChanged(fn Handler) Handle {
	return n.changed.attach(fn)
}

// DetachChanged removes an after-change listener. No-op if absent.
func (n *Notifier) DetachChanged(h Handle) {
	n.changed.detach(h)
}

// BindDispatcher binds the entity to a dispatcher. When bound, every
// notification is marshalled onto the dispatcher before listeners run, and
// the emitting call blocks until delivery finished so listener failures
// still surface synchronously. Bind before the first mutation; rebinding
// while mutations are in flight is not supported.
func (n *Notifier) BindDispatcher(d Dispatcher) {
	n.dispatcher = d
}

// BoundDispatcher returns the bound dispatcher, or nil.
func (n *Notifier) BoundDispatcher() Dispatcher {
	return n.dispatcher
}

// Notify dispatches a change notification for the named member to the
// matching listener list. The name must be non-empty; when DebugMode is
// set it must also resolve against the sender's shape. Listener failures
// are collected and returned as a single *AggregateError after every
// listener has run.
func (n *Notifier) Notify(name string, timing Timing) error {
	if name == "" {
		return ErrEmptyName
	}
	if DebugMode {
		if err := ValidateName(n.Sender(), name); err != nil {
			return err
		}
	}
	return n.emit(name, timing)
}

// emit dispatches without re-validating the name. Set validates once up
// front so naming failures abort before any mutation.
func (n *Notifier) emit(name string, timing Timing) error {
	var list *listenerList
	switch timing {
	case Before:
		list = &n.changing
	default:
		list = &n.changed
	}
	subs := list.snapshot()
	if len(subs) == 0 {
		return nil
	}
	change := Change{Name: name, Timing: timing}
	sender := n.Sender()
	return Marshal(n.dispatcher, func() error {
		return dispatch(subs, sender, change)
	})
}
