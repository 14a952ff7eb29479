package event

import (
	"context"
	"sort"

	"github.com/acksell/gamelog/kvstore"
)

// Store appends and scans events.
type Store struct {
	tree   *kvstore.Tree
	bucket kvstore.Bucket
}

func NewStore(tree *kvstore.Tree) *Store {
	return &Store{tree: tree, bucket: tree}
}

// WithTx returns a store that reads and writes through tx.
func (s *Store) WithTx(tx *kvstore.Tx) *Store {
	return &Store{tree: s.tree, bucket: tx.Bind(s.tree)}
}

// Insert writes ev under key. Keys are not checked for uniqueness: a second
// insert under the same key replaces the first, so keys must be unique ids.
func (s *Store) Insert(ctx context.Context, key string, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(ev)
	if err != nil {
		return &Error{Op: "insert", Kind: KindSerialization, Key: key, Err: err}
	}
	if err := s.bucket.Insert([]byte(key), data); err != nil {
		return &Error{Op: "insert", Kind: KindStorage, Key: key, Err: err}
	}
	return nil
}

// All returns every stored event in key order. A record that fails to decode
// aborts the scan; no partial result is returned.
func (s *Store) All(ctx context.Context) ([]Entry, error) {
	return s.scan(ctx, "all", func(Event) bool { return true })
}

// ForGame returns the events that reference gameID, oldest first. It scans the
// whole tree; there is no index on game id.
func (s *Store) ForGame(ctx context.Context, gameID string) ([]Entry, error) {
	entries, err := s.scan(ctx, "for_game", func(ev Event) bool { return ev.GameID == gameID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Event.Timestamp.Before(entries[j].Event.Timestamp)
	})
	return entries, nil
}

func (s *Store) scan(ctx context.Context, op string, keep func(Event) bool) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []Entry
	var decodeErr *Error
	err := s.bucket.Scan(func(key, value []byte) error {
		ev, err := Unmarshal(value)
		if err != nil {
			decodeErr = &Error{Op: op, Kind: KindSerialization, Key: string(key), Err: err}
			return decodeErr
		}
		if keep(ev) {
			entries = append(entries, Entry{Key: string(key), Event: ev})
		}
		return nil
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if err != nil {
		return nil, &Error{Op: op, Kind: KindStorage, Err: err}
	}
	return entries, nil
}
