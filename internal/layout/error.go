package layout

import "fmt"

// ErrorKind enumerates planner failure kinds.
type ErrorKind uint8

const (
	// ErrRequiredHasbitLimit indicates a message needs more required-field
	// hasbits than the bitset word can guarantee.
	ErrRequiredHasbitLimit ErrorKind = iota + 1
)

// Error reports a failed layout computation. Scale failures surface as
// values; logic defects (unknown kinds, lookups for unplaced entities) panic
// at the point of violation instead.
type Error struct {
	Kind    ErrorKind
	Message string // message type name
	Field   string // offending field name
	Limit   int
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrRequiredHasbitLimit:
		return fmt.Sprintf("message %s has more than %d required fields (at field %s)",
			e.Message, e.Limit, e.Field)
	default:
		return fmt.Sprintf("layout error kind=%d message=%s field=%s", e.Kind, e.Message, e.Field)
	}
}
