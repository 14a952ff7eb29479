package event

import "fmt"

// Kind classifies a store failure.
type Kind int

const (
	KindStorage Kind = iota + 1
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
	Op   string
	Kind Kind
	Key  string
	Err  error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("event %s %q: %s: %v", e.Op, e.Key, e.Kind, e.Err)
	}
	return fmt.Sprintf("event %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
