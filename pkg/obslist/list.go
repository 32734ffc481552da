package obslist

import (
	"fmt"
	"slices"
	"sync"

	"github.com/notifly-dev/notifly/pkg/notify"
)

// Member names carried by the generic before/after-change notifications of
// every structural mutation. ItemsMember uses the indexer marker because it
// reports "some element of the indexed member changed".
const (
	ItemsMember = "Items" + notify.IndexerMarker
	LenMember   = "Len"
)

// Option configures a List at construction.
type Option[T any] func(*List[T])

// WithEquals overrides the equality used by Contains, IndexOf and Remove.
func WithEquals[T any](fn func(T, T) bool) Option[T] {
	return func(l *List[T]) {
		l.equals = fn
	}
}

// WithItems seeds the list. No notification fires for the seed.
func WithItems[T any](items ...T) Option[T] {
	return func(l *List[T]) {
		l.items = append(l.items, items...)
	}
}

// WithDispatcher binds the list to a dispatcher so all its notifications,
// generic and structural, are delivered on the dispatcher's goroutine.
func WithDispatcher[T any](d notify.Dispatcher) Option[T] {
	return func(l *List[T]) {
		l.life.BindDispatcher(d)
	}
}

type eventEntry[T any] struct {
	id notify.Handle
	fn EventHandler[T]
}

// List is a thread-synchronized mutable ordered sequence with the full
// change-notification discipline: every structural mutation emits the
// generic before/after-change pairs for LenMember and ItemsMember plus one
// typed structural Event, all dispatched outside the write lock.
//
// Reads take the read lock and may run concurrently; writes take the write
// lock and are mutually exclusive with everything on the same instance.
// Notification dispatch happens strictly after the triggering mutation's
// write lock is released, with the reentrancy counter held up for its
// duration: a handler may re-read the list, but a structural mutation from
// within any handler fails with ErrReentrantMutation.
type List[T any] struct {
	life *notify.LifecycleNotifier

	mu    sync.RWMutex
	items []T

	// guard is entered for the duration of notification dispatch, only
	// after the write lock is released.
	guard notify.ReentrancyGuard

	equals func(T, T) bool

	subMu sync.RWMutex
	subs  []eventEntry[T]
}

// New creates a list.
func New[T any](opts ...Option[T]) *List[T] {
	l := &List[T]{}
	l.life = notify.NewLifecycleNotifier(l)
	for _, opt := range opts {
		opt(l)
	}
	if l.equals == nil {
		l.equals = notify.Equal[T]
	}
	return l
}

// AttachChanging adds a generic before-change listener.
func (l *List[T]) AttachChanging(fn notify.Handler) notify.Handle {
	return l.life.AttachChanging(fn)
}

// DetachChanging removes a generic before-change listener.
func (l *List[T]) DetachChanging(h notify.Handle) {
	l.life.DetachChanging(h)
}

// AttachChanged adds a generic after-change listener.
func (l *List[T]) AttachChanged(fn notify.Handler) notify.Handle {
	return l.life.AttachChanged(fn)
}

// DetachChanged removes a generic after-change listener.
func (l *List[T]) DetachChanged(h notify.Handle) {
	l.life.DetachChanged(h)
}

// AttachListChanged adds a structural change listener.
func (l *List[T]) AttachListChanged(fn EventHandler[T]) notify.Handle {
	if fn == nil {
		return 0
	}
	h := notify.NewHandle()
	l.subMu.Lock()
	l.subs = append(l.subs, eventEntry[T]{id: h, fn: fn})
	l.subMu.Unlock()
	return h
}

// DetachListChanged removes a structural change listener. No-op if absent.
func (l *List[T]) DetachListChanged(h notify.Handle) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	for i, e := range l.subs {
		if e.id == h {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			return
		}
	}
}

// AttachDisposing adds a before-dispose listener for the container itself.
func (l *List[T]) AttachDisposing(fn notify.Handler) notify.Handle {
	return l.life.AttachDisposing(fn)
}

// AttachDisposed adds an after-dispose listener for the container itself.
func (l *List[T]) AttachDisposed(fn notify.Handler) notify.Handle {
	return l.life.AttachDisposed(fn)
}

// Len returns the element count.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// At returns the element at index i.
func (l *List[T]) At(i int) (T, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, fmt.Errorf("%w: %d with length %d", notify.ErrIndexOutOfRange, i, len(l.items))
	}
	return l.items[i], nil
}

// Items returns a point-in-time snapshot: a defensive copy taken under the
// read lock, stable even if the list mutates afterward. It is never the
// live backing store.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	items := make([]T, len(l.items))
	copy(items, l.items)
	return items
}

// IndexOf returns the index of the first element equal to v, or -1.
func (l *List[T]) IndexOf(v T) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i, item := range l.items {
		if l.equals(item, v) {
			return i
		}
	}
	return -1
}

// Contains reports whether the list holds an element equal to v.
func (l *List[T]) Contains(v T) bool {
	return l.IndexOf(v) >= 0
}

// Append inserts v at the end.
func (l *List[T]) Append(v T) error {
	l.mu.Lock()
	if err := l.mutableLocked(); err != nil {
		l.mu.Unlock()
		return err
	}
	index := len(l.items)
	l.items = append(l.items, v)
	l.mu.Unlock()

	return l.dispatch(Event[T]{Action: ActionAdd, Items: []T{v}, NewIndex: index, OldIndex: NoIndex})
}

// Insert inserts v at index. Index may equal Len, which appends.
func (l *List[T]) Insert(index int, v T) error {
	l.mu.Lock()
	if err := l.mutableLocked(); err != nil {
		l.mu.Unlock()
		return err
	}
	if index < 0 || index > len(l.items) {
		err := fmt.Errorf("%w: insert at %d with length %d", notify.ErrIndexOutOfRange, index, len(l.items))
		l.mu.Unlock()
		return err
	}
	l.items = slices.Insert(l.items, index, v)
	l.mu.Unlock()

	return l.dispatch(Event[T]{Action: ActionAdd, Items: []T{v}, NewIndex: index, OldIndex: NoIndex})
}

// InsertAll inserts vs in order starting at index. Inserting nothing is a
// no-op with no notification.
func (l *List[T]) InsertAll(index int, vs ...T) error {
	if len(vs) == 0 {
		return nil
	}
	l.mu.Lock()
	if err := l.mutableLocked(); err != nil {
		l.mu.Unlock()
		return err
	}
	if index < 0 || index > len(l.items) {
		err := fmt.Errorf("%w: insert at %d with length %d", notify.ErrIndexOutOfRange, index, len(l.items))
		l.mu.Unlock()
		return err
	}
	l.items = slices.Insert(l.items, index, vs...)
	l.mu.Unlock()

	items := make([]T, len(vs))
	copy(items, vs)
	return l.dispatch(Event[T]{Action: ActionAdd, Items: items, NewIndex: index, OldIndex: NoIndex})
}

// RemoveAt removes and returns the element at index.
func (l *List[T]) RemoveAt(index int) (T, error) {
	var zero T
	l.mu.Lock()
	if err := l.mutableLocked(); err != nil {
		l.mu.Unlock()
		return zero, err
	}
	if index < 0 || index >= len(l.items) {
		err := fmt.Errorf("%w: remove at %d with length %d", notify.ErrIndexOutOfRange, index, len(l.items))
		l.mu.Unlock()
		return zero, err
	}
	removed := l.items[index]
	l.items = slices.Delete(l.items, index, index+1)
	l.mu.Unlock()

	err := l.dispatch(Event[T]{Action: ActionRemove, Items: []T{removed}, NewIndex: NoIndex, OldIndex: index})
	return removed, err
}

// Remove removes the first element equal to v and reports whether one was
// found. A miss is not an error and fires nothing.
func (l *List[T]) Remove(v T) (bool, error) {
	l.mu.Lock()
	if err := l.mutableLocked(); err != nil {
		l.mu.Unlock()
		return false, err
	}
	index := -1
	for i, item := range l.items {
		if l.equals(item, v) {
			index = i
			break
		}
	}
	if index < 0 {
		l.mu.Unlock()
		return false, nil
	}
	removed := l.items[index]
	l.items = slices.Delete(l.items, index, index+1)
	l.mu.Unlock()

	err := l.dispatch(Event[T]{Action: ActionRemove, Items: []T{removed}, NewIndex: NoIndex, OldIndex: index})
	return true, err
}

// RemoveRange removes count elements starting at index. Removing zero
// elements is a no-op with no notification.
func (l *List[T]) RemoveRange(index, count int) error {
	if count == 0 {
		return nil
	}
	l.mu.Lock()
	if err := l.mutableLocked(); err != nil {
		l.mu.Unlock()
		return err
	}
	if index < 0 || count < 0 || index+count > len(l.items) {
		err := fmt.Errorf("%w: remove [%d,%d) with length %d", notify.ErrIndexOutOfRange, index, index+count, len(l.items))
		l.mu.Unlock()
		return err
	}
	removed := make([]T, count)
	copy(removed, l.items[index:index+count])
	l.items = slices.Delete(l.items, index, index+count)
	l.mu.Unlock()

	return l.dispatch(Event[T]{Action: ActionRemove, Items: removed, NewIndex: NoIndex, OldIndex: index})
}

// SetAt replaces the element at index with v.
func (l *List[T]) SetAt(index int, v T) error {
	l.mu.Lock()
	if err := l.mutableLocked(); err != nil {
		l.mu.Unlock()
		return err
	}
	if index < 0 || index >= len(l.items) {
		err := fmt.Errorf("%w: replace at %d with length %d", notify.ErrIndexOutOfRange, index, len(l.items))
		l.mu.Unlock()
		return err
	}
	l.items[index] = v
	l.mu.Unlock()

	return l.dispatch(Event[T]{Action: ActionReplace, Items: []T{v}, NewIndex: index, OldIndex: index})
}

// Move relocates the element at oldIndex to newIndex as one atomic
// structural step under a single lock acquisition, and emits exactly one
// move event, never a remove/add pair. Moving an element onto its own
// index is a no-op with no notification.
func (l *List[T]) Move(oldIndex, newIndex int) error {
	if oldIndex == newIndex {
		return nil
	}
	l.mu.Lock()
	if err := l.mutableLocked(); err != nil {
		l.mu.Unlock()
		return err
	}
	n := len(l.items)
	if oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
		err := fmt.Errorf("%w: move %d to %d with length %d", notify.ErrIndexOutOfRange, oldIndex, newIndex, n)
		l.mu.Unlock()
		return err
	}
	item := l.items[oldIndex]
	l.items = slices.Delete(l.items, oldIndex, oldIndex+1)
	l.items = slices.Insert(l.items, newIndex, item)
	l.mu.Unlock()

	return l.dispatch(Event[T]{Action: ActionMove, Items: []T{item}, NewIndex: newIndex, OldIndex: oldIndex})
}

// Clear removes every element and emits a single reset event. Clearing an
// empty list is a no-op with no notification.
func (l *List[T]) Clear() error {
	l.mu.Lock()
	if err := l.mutableLocked(); err != nil {
		l.mu.Unlock()
		return err
	}
	if len(l.items) == 0 {
		l.mu.Unlock()
		return nil
	}
	l.items = nil
	l.mu.Unlock()

	return l.dispatch(Event[T]{Action: ActionReset, Items: nil, NewIndex: NoIndex, OldIndex: NoIndex})
}

// Dispose runs the container's dispose notification pair once. Contained
// elements are never disposed; their ownership stays with the caller.
func (l *List[T]) Dispose() error {
	return l.life.Dispose(nil)
}

// State returns the container's lifecycle state.
func (l *List[T]) State() notify.LifecycleState {
	return l.life.State()
}

// BindDispatcher binds the list to a dispatcher after construction. All
// subsequent notification turns run through it as one unit.
func (l *List[T]) BindDispatcher(d notify.Dispatcher) {
	l.life.BindDispatcher(d)
}

// mutableLocked rejects a structural mutation attempted from within one of
// this list's notification handlers. Called with the write lock held; the
// mutation has not happened yet on failure. Writers on other goroutines
// pass and simply serialize on the lock.
func (l *List[T]) mutableLocked() error {
	if l.guard.Active() {
		return notify.ErrReentrantMutation
	}
	return nil
}

// dispatch delivers the notifications for one committed mutation: the
// before pair for LenMember and ItemsMember, the structural event, then the
// after pair. The LenMember pair fires only for mutations that change the
// length; Replace and Move notify ItemsMember alone. The whole turn is
// marshalled onto the bound dispatcher (if any) as one unit, with the
// reentrancy guard held for its duration and released on every exit path,
// even when listeners fail. All listener failures are collected and
// surfaced as one aggregate after everything ran; the mutation is already
// committed and is never rolled back.
func (l *List[T]) dispatch(ev Event[T]) error {
	return notify.Marshal(l.life.BoundDispatcher(), func() error {
		l.guard.Enter()
		defer l.guard.Exit()

		var errs []error
		collect := func(err error) {
			if err != nil {
				errs = append(errs, err)
			}
		}

		lenChanged := ev.Action != ActionReplace && ev.Action != ActionMove
		if lenChanged {
			collect(l.life.Notify(LenMember, notify.Before))
		}
		collect(l.life.Notify(ItemsMember, notify.Before))
		collect(l.emitListChanged(ev))
		collect(l.life.Notify(ItemsMember, notify.After))
		if lenChanged {
			collect(l.life.Notify(LenMember, notify.After))
		}

		return notify.Aggregate(errs...)
	})
}

// emitListChanged dispatches the structural event to a snapshot of the
// typed listener list, isolating each listener the same way the generic
// dispatcher does. Runs inside the marshalled notification turn.
func (l *List[T]) emitListChanged(ev Event[T]) error {
	l.subMu.RLock()
	subs := make([]eventEntry[T], len(l.subs))
	copy(subs, l.subs)
	l.subMu.RUnlock()
	if len(subs) == 0 {
		return nil
	}

	var errs []error
	for _, e := range subs {
		fn := e.fn
		if err := notify.Guard(func() { fn(l, ev) }); err != nil {
			errs = append(errs, err)
		}
	}
	return notify.Aggregate(errs...)
}
