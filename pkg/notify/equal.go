package notify

import "reflect"

// Equal reports whether two values are equal under the natural equality for
// the value's semantic type: == for basic comparable types, identity for
// entity-like values (pointers, channels, functions), reflect.DeepEqual for
// everything else. It is the default equality used by Set and by the
// membership operations of obslist.
func Equal[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	}

	// Entity-like values compare by identity, not structure. The dynamic
	// value decides, so an interface-typed field holding a pointer still
	// compares by reference.
	if entityLike(any(a)) || entityLike(any(b)) {
		return identical(any(a), any(b))
	}

	return reflect.DeepEqual(a, b)
}

// entityLike reports whether v's dynamic value carries identity.
func entityLike(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}

// identical compares two entity-like values by the address they refer to.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return isNil(a) && isNil(b)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.IsNil() || vb.IsNil() {
		return va.IsNil() && vb.IsNil()
	}
	return va.Pointer() == vb.Pointer()
}

// isNil reports whether v is nil, including a typed nil inside a non-nil
// interface. Needed before invoking capability interfaces on field values.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
