package notify

import (
	"fmt"
	"reflect"
	"strings"
)

// DebugMode enables the reflective member-name check on every notification.
// Production callers leave it false and pay no reflection cost; test and
// diagnostic builds should set it at startup and not change it afterward.
var DebugMode bool

// IndexerMarker is the literal two-character suffix denoting "some element
// of the indexed member identified by the base name changed". It is part of
// the protocol's naming convention, not syntax to parse further.
const IndexerMarker = "[]"

// ValidateName verifies that name resolves to a readable member of shape.
//
// A name carrying the IndexerMarker suffix must resolve, by its base name,
// to an indexed member: a slice, array, or map field; a niladic method
// returning a slice, array, or map; or a single-argument getter method.
// A name without the marker must resolve to a readable member that is not
// indexed.
//
// The check is advisory. Notifier runs it on every notification only when
// DebugMode is set; production paths skip it.
func ValidateName(shape any, name string) error {
	if name == "" {
		return ErrEmptyName
	}
	base := name
	marked := strings.HasSuffix(name, IndexerMarker)
	if marked {
		base = strings.TrimSuffix(name, IndexerMarker)
		if base == "" {
			return ErrEmptyName
		}
	}

	readable, indexed := resolveMember(shape, base)
	switch {
	case !readable:
		return fmt.Errorf("%w: %q on %T", ErrUnknownMember, name, shape)
	case marked && !indexed:
		return fmt.Errorf("%w: %q on %T", ErrNotIndexer, name, shape)
	case !marked && indexed:
		return fmt.Errorf("%w: %q on %T", ErrIsIndexer, name, shape)
	}
	return nil
}

// resolveMember reports whether base names a readable member of shape and
// whether that member is indexed.
func resolveMember(shape any, base string) (readable, indexed bool) {
	if shape == nil {
		return false, false
	}
	t := reflect.TypeOf(shape)

	// Methods first, on the original type so pointer receivers are seen.
	if m, ok := t.MethodByName(base); ok {
		mt := m.Func.Type()
		if mt.NumOut() >= 1 {
			switch mt.NumIn() {
			case 1: // receiver only
				return true, isIndexedKind(mt.Out(0).Kind())
			case 2: // receiver plus one index argument
				return true, true
			}
		}
	}

	// Then exported struct fields.
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(base); ok && f.IsExported() {
			return true, isIndexedKind(f.Type.Kind())
		}
	}
	return false, false
}

func isIndexedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}
