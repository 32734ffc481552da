package notify

import "fmt"

// dispatch invokes every listener in attachment order, isolating each one:
// a panicking listener never suppresses the listeners after it. Recovered
// panics are collected in invocation order and returned as one
// *AggregateError after all listeners have run. An empty list returns nil
// with no side effects.
func dispatch(subs []listenerEntry, sender any, change Change) error {
	if len(subs) == 0 {
		return nil
	}
	var errs []error
	for _, e := range subs {
		if err := Guard(func() { e.fn(sender, change) }); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}

// Guard runs fn and converts a panic into an error. Panics that already
// carry an error are wrapped so errors.Is and errors.As still reach them.
func Guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("notify: listener panicked: %w", e)
			} else {
				err = fmt.Errorf("notify: listener panicked: %v", r)
			}
		}
	}()
	fn()
	return nil
}

// Marshal runs fn on the dispatcher and waits for it to finish, so the
// returned error reaches the caller even though listeners ran elsewhere.
// A nil dispatcher runs fn inline. Entities that dispatch their own typed
// notifications (obslist structural events) use it to honor a bound
// dispatcher the same way Notifier does.
func Marshal(d Dispatcher, fn func() error) error {
	if d == nil {
		return fn()
	}
	var err error
	done := make(chan struct{})
	d.Dispatch(func() {
		defer close(done)
		err = fn()
	})
	<-done
	return err
}
