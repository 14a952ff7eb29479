package persistence

import (
	"errors"
	"fmt"
)

// Kind tells callers how a service call failed.
type Kind int

const (
	// KindGameNotFound is a referential violation: the game an event points
	// at does not exist. Nothing was written.
	KindGameNotFound Kind = iota + 1
	// KindGameStore wraps a *game.Error.
	KindGameStore
	// KindEventStore wraps an *event.Error.
	KindEventStore
	// KindCommit is a transaction that failed to commit, typically with
	// kvstore.ErrConflict when a concurrent writer changed the checked game.
	KindCommit
	KindAlreadyStarted
	KindNotStarted
	KindAlreadyFinished
	KindScoreOverflow
)

func (k Kind) String() string {
	switch k {
	case KindGameNotFound:
		return "game not found"
	case KindGameStore:
		return "game store"
	case KindEventStore:
		return "event store"
	case KindCommit:
		return "commit"
	case KindAlreadyStarted:
		return "already started"
	case KindNotStarted:
		return "not started"
	case KindAlreadyFinished:
		return "already finished"
	case KindScoreOverflow:
		return "score overflow"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by every Service method that fails.
type Error struct {
	Kind   Kind
	GameID string
	Err    error // cause; nil for referential and lifecycle violations
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindGameNotFound:
		return fmt.Sprintf("game with id %q not found", e.GameID)
	case KindAlreadyStarted, KindNotStarted, KindAlreadyFinished, KindScoreOverflow:
		return fmt.Sprintf("game %q: %s", e.GameID, e.Kind)
	}
	if e.GameID != "" {
		return fmt.Sprintf("game %q: %s: %v", e.GameID, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return 0
}

// IsGameNotFound reports whether err is a referential violation.
func IsGameNotFound(err error) bool {
	return KindOf(err) == KindGameNotFound
}

// MissingGameID returns the id carried by a referential violation.
func MissingGameID(err error) (string, bool) {
	var perr *Error
	if errors.As(err, &perr) && perr.Kind == KindGameNotFound {
		return perr.GameID, true
	}
	return "", false
}
