package notify

import "cmp"

// SetOption configures a single Set call. All options are independently
// optional; a plain Set with no options does equality short-circuit,
// before/after notifications, and the swap.
type SetOption[T any] func(*setConfig[T])

type setConfig[T any] struct {
	equals           func(T, T) bool
	validate         func(T) string
	inRange          func(name string, candidate T) error
	disposePrevious  bool
	onChange         func()
	onChangePrevious func(T)
	sub              *Subscription
	subHandler       Handler
}

// WithEquals overrides the equality used for the no-op short-circuit.
func WithEquals[T any](fn func(T, T) bool) SetOption[T] {
	return func(c *setConfig[T]) {
		c.equals = fn
	}
}

// WithValidate supplies a validation function. A non-empty return rejects
// the candidate: Set fails with *ValidationError and makes no mutation.
func WithValidate[T any](fn func(T) string) SetOption[T] {
	return func(c *setConfig[T]) {
		c.validate = fn
	}
}

// WithRange bounds the candidate to the inclusive range [min, max]. A
// candidate outside the range fails with *RangeError and makes no mutation.
func WithRange[T cmp.Ordered](min, max T) SetOption[T] {
	return func(c *setConfig[T]) {
		c.inRange = func(name string, candidate T) error {
			if candidate < min || candidate > max {
				return &RangeError{Name: name, Candidate: candidate, Min: min, Max: max}
			}
			return nil
		}
	}
}

// WithDisposePrevious disposes the current value, when it implements
// Disposable and is non-nil, before any notification fires.
func WithDisposePrevious[T any]() SetOption[T] {
	return func(c *setConfig[T]) {
		c.disposePrevious = true
	}
}

// WithOnChange registers a callback invoked after the after-change
// notification, once the swap committed.
func WithOnChange[T any](fn func()) SetOption[T] {
	return func(c *setConfig[T]) {
		c.onChange = fn
	}
}

// WithOnChangePrevious registers a callback invoked with the value the
// field held before the swap. Runs after the WithOnChange callback.
func WithOnChangePrevious[T any](fn func(T)) SetOption[T] {
	return func(c *setConfig[T]) {
		c.onChangePrevious = fn
	}
}

// Subscription tracks the nested-observable listener managed by
// WithChangeHandler across successive Set calls. The zero value is ready;
// callers keep one Subscription per observed field.
type Subscription struct {
	target Observable
	handle Handle
}

// Detach removes the tracked listener from its current target, if any.
func (s *Subscription) Detach() {
	if s.target != nil {
		s.target.DetachChanged(s.handle)
		s.target = nil
		s.handle = 0
	}
}

// WithChangeHandler keeps fn subscribed to the field's value: when the
// current value is observable the handler is detached from it before the
// swap, and when the candidate is observable the handler is attached to it
// after the swap. The Subscription carries the attachment between calls.
func WithChangeHandler[T any](sub *Subscription, fn Handler) SetOption[T] {
	return func(c *setConfig[T]) {
		c.sub = sub
		c.subHandler = fn
	}
}

// Set mutates the caller-owned field through the change-notification
// protocol and reports whether a change took place.
//
// When the candidate equals the current value nothing happens: no
// notification, no callback, changed is false. Otherwise the candidate is
// validated and range-checked (failures abort with zero side effects), the
// before-change notification fires, the field is swapped (re-pointing the
// nested subscription when configured), the after-change notification
// fires, and the change callbacks run.
//
// Listener failures from either notification never prevent the swap or the
// callbacks; they are collected and surfaced as a single *AggregateError
// after the whole sequence finished, together with changed == true.
func Set[T any](n *Notifier, field *T, candidate T, name string, opts ...SetOption[T]) (changed bool, err error) {
	if name == "" {
		return false, ErrEmptyName
	}
	if DebugMode {
		if err := ValidateName(n.Sender(), name); err != nil {
			return false, err
		}
	}

	var cfg setConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	equals := cfg.equals
	if equals == nil {
		equals = Equal[T]
	}
	if equals(*field, candidate) {
		return false, nil
	}

	if cfg.validate != nil {
		if msg := cfg.validate(candidate); msg != "" {
			return false, &ValidationError{Name: name, Message: msg}
		}
	}
	if cfg.inRange != nil {
		if err := cfg.inRange(name, candidate); err != nil {
			return false, err
		}
	}

	// Post-guard phase: from here on the mutation always completes, and
	// failures are deferred into one aggregate surfaced at the end.
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	prev := *field
	if cfg.disposePrevious {
		if d, ok := any(prev).(Disposable); ok && !isNil(prev) {
			collect(d.Dispose())
		}
	}

	collect(n.emit(name, Before))

	if cfg.sub != nil {
		cfg.sub.Detach()
	}
	*field = candidate
	if cfg.sub != nil && cfg.subHandler != nil {
		if obs, ok := any(candidate).(Observable); ok && !isNil(candidate) {
			cfg.sub.target = obs
			cfg.sub.handle = obs.AttachChanged(cfg.subHandler)
		}
	}

	collect(n.emit(name, After))

	if cfg.onChange != nil {
		cfg.onChange()
	}
	if cfg.onChangePrevious != nil {
		cfg.onChangePrevious(prev)
	}

	return true, Aggregate(errs...)
}
