// Package notify provides the property-change notification core: an
// observable entity with paired before/after change notifications, a
// panic-isolating multi-listener dispatcher, and the Set protocol for
// mutating a caller-owned field with the full notification discipline.
//
// # Core Types
//
// Notifier is an embeddable observable entity with two listener lists:
//
//	type Person struct {
//	    notify.Notifier
//	    name string
//	}
//
//	p := &Person{}
//	h := p.AttachChanged(func(sender any, c notify.Change) {
//	    fmt.Println("changed:", c.Name)
//	})
//	defer p.DetachChanged(h)
//
// Set mutates a field through the protocol: equality short-circuit,
// optional validation and range checks, before-change notification, swap,
// after-change notification, then change callbacks:
//
//	func (p *Person) SetName(name string) (bool, error) {
//	    return notify.Set(&p.Notifier, &p.name, name, "Name")
//	}
//
// Assigning a value equal to the current one returns (false, nil) and fires
// nothing. That short-circuit is what keeps repeated assignment of the same
// value from producing notification storms.
//
// # Listener Isolation
//
// Dispatch never stops at a panicking listener. Every listener runs; all
// recovered panics are surfaced afterward as a single *AggregateError in
// invocation order. A failure in a before- or after-change listener does not
// roll back the mutation or skip the change callbacks: the mutation commits,
// and the aggregate surfaces last.
//
// # Thread Affinity
//
// An entity may be bound to a Loop so that all its notifications are
// delivered on one goroutine regardless of which goroutine mutated it:
//
//	loop := notify.NewLoop()
//	go loop.Run()
//	defer loop.Close()
//	n.BindDispatcher(loop)
//
// # Debug Validation
//
// When DebugMode is true, every notification's member name is checked
// against the sender's shape via reflection (see ValidateName). Production
// builds leave DebugMode false and skip the reflective check entirely.
package notify
