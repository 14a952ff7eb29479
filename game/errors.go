package game

import "fmt"

// Kind classifies a store failure.
type Kind int

const (
	// KindStorage is a failed read or write of the underlying tree.
	KindStorage Kind = iota + 1
	// KindSerialization is a record that could not be encoded or decoded.
	KindSerialization
)

func (k Kind) String() string {
	switch k {
	case KindStorage:
		return "storage"
	case KindSerialization:
		return "serialization"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by every Store method that fails.
type Error struct {
	Op   string // "insert", "get" or "all"
	Kind Kind
	ID   string // empty for scans
	Err  error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("game %s %q: %s: %v", e.Op, e.ID, e.Kind, e.Err)
	}
	return fmt.Sprintf("game %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
