// Package obslist provides List[T], a thread-synchronized mutable ordered
// sequence whose structural mutations carry the full change-notification
// discipline of package notify.
//
// Every accepted mutation emits, in order: the before-change pair for the
// "Len" and "Items[]" members, one typed structural Event (add, remove,
// replace, move, or reset), and the matching after-change pair. Dispatch
// happens strictly after the mutation's write lock is released.
//
//	l := obslist.New[string]()
//	l.AttachListChanged(func(_ any, ev obslist.Event[string]) {
//	    fmt.Println(ev.Action, ev.Items)
//	})
//	l.Append("a")
//
// Reads (Len, At, Contains, Items) take the read lock and run concurrently.
// Items returns a point-in-time snapshot, never the live backing store.
//
// A handler must not mutate the list it is being notified about: such calls
// fail with notify.ErrReentrantMutation and the outer mutation's own
// notifications still complete. Writers on other goroutines are unaffected
// and simply serialize on the write lock.
package obslist
