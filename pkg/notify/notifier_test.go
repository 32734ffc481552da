package notify

import (
	"sync"
	"testing"
)

// recorder collects the changes a listener observed, in order.
type recorder struct {
	mu      sync.Mutex
	changes []Change
	senders []any
}

func (r *recorder) handler() Handler {
	return func(sender any, c Change) {
		r.mu.Lock()
		r.changes = append(r.changes, c)
		r.senders = append(r.senders, sender)
		r.mu.Unlock()
	}
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func (r *recorder) change(i int) Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changes[i]
}

func TestNotifyDispatchesToChangedList(t *testing.T) {
	n := &Notifier{}
	rec := &recorder{}
	n.AttachChanged(rec.handler())

	if err := n.Notify("Name", After); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if rec.count() != 1 {
		t.Fatalf("expected 1 notification, got %d", rec.count())
	}
	if c := rec.change(0); c.Name != "Name" || c.Timing != After {
		t.Errorf("unexpected change payload: %+v", c)
	}
}

func TestNotifyEmptyNameRejected(t *testing.T) {
	n := &Notifier{}
	if err := n.Notify("", Before); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestListenersRunInAttachmentOrder(t *testing.T) {
	n := &Notifier{}
	var order []int
	n.AttachChanged(func(any, Change) { order = append(order, 1) })
	n.AttachChanged(func(any, Change) { order = append(order, 2) })
	n.AttachChanged(func(any, Change) { order = append(order, 3) })

	if err := n.Notify("X", After); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected attachment order 1,2,3, got %v", order)
	}
}

func TestDetachStopsDelivery(t *testing.T) {
	n := &Notifier{}
	rec := &recorder{}
	h := n.AttachChanged(rec.handler())
	n.DetachChanged(h)

	if err := n.Notify("X", After); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if rec.count() != 0 {
		t.Errorf("detached listener was invoked %d times", rec.count())
	}
}

func TestDetachAbsentHandleNoOp(t *testing.T) {
	n := &Notifier{}
	n.DetachChanged(Handle(12345))
	n.DetachChanging(Handle(0))
}

func TestChangingAndChangedListsAreSeparate(t *testing.T) {
	n := &Notifier{}
	before := &recorder{}
	after := &recorder{}
	n.AttachChanging(before.handler())
	n.AttachChanged(after.handler())

	if err := n.Notify("X", Before); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if before.count() != 1 || after.count() != 0 {
		t.Errorf("before notification leaked: before=%d after=%d", before.count(), after.count())
	}

	if err := n.Notify("X", After); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if before.count() != 1 || after.count() != 1 {
		t.Errorf("after notification leaked: before=%d after=%d", before.count(), after.count())
	}
}

func TestSenderDefaultsToNotifier(t *testing.T) {
	n := &Notifier{}
	rec := &recorder{}
	n.AttachChanged(rec.handler())
	if err := n.Notify("X", After); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if rec.senders[0] != n {
		t.Errorf("expected the notifier itself as sender, got %T", rec.senders[0])
	}
}

type namedThing struct {
	*Notifier
	Label string
}

func TestExplicitSenderReported(t *testing.T) {
	thing := &namedThing{Label: "x"}
	thing.Notifier = NewNotifier(thing)
	rec := &recorder{}
	thing.AttachChanged(rec.handler())
	if err := thing.Notify("Label", After); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if rec.senders[0] != thing {
		t.Errorf("expected the owning entity as sender, got %T", rec.senders[0])
	}
}
