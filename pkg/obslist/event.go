package obslist

// Action identifies the kind of structural change a list underwent.
type Action uint8

const (
	// ActionAdd: items were inserted at NewIndex.
	ActionAdd Action = iota + 1
	// ActionRemove: items were removed from OldIndex.
	ActionRemove
	// ActionReplace: the item at NewIndex was replaced.
	ActionReplace
	// ActionMove: one item moved from OldIndex to NewIndex.
	ActionMove
	// ActionReset: the list was cleared.
	ActionReset
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionMove:
		return "move"
	case ActionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// NoIndex marks an index field that does not apply to the action.
const NoIndex = -1

// Event describes one structural change, delivered after the generic
// before-change notifications and before the generic after-change
// notifications of the same mutation.
type Event[T any] struct {
	// Action is the kind of change.
	Action Action

	// Items are the affected elements: the inserted items for add, the
	// removed items for remove, the new item for replace, the moved item
	// for move. Nil for reset.
	Items []T

	// NewIndex is the index the items now occupy, or NoIndex.
	NewIndex int

	// OldIndex is the index the items previously occupied, or NoIndex.
	OldIndex int
}

// EventHandler is a structural change listener.
type EventHandler[T any] func(sender any, ev Event[T])
