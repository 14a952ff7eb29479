package game

import (
	"context"
	"errors"

	"github.com/acksell/gamelog/kvstore"
)

// Store reads and writes games. It holds no state besides its tree, so
// a Store is safe for concurrent use whenever the tree is.
type Store struct {
	tree   *kvstore.Tree
	bucket kvstore.Bucket
}

// NewStore returns a store over tree.
func NewStore(tree *kvstore.Tree) *Store {
	return &Store{tree: tree, bucket: tree}
}

// WithTx returns a store that reads and writes through tx.
func (s *Store) WithTx(tx *kvstore.Tx) *Store {
	return &Store{tree: s.tree, bucket: tx.Bind(s.tree)}
}

// Insert writes g under its id, replacing any game already stored there.
func (s *Store) Insert(ctx context.Context, g Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(g)
	if err != nil {
		return &Error{Op: "insert", Kind: KindSerialization, ID: g.ID, Err: err}
	}
	if err := s.bucket.Insert([]byte(g.ID), data); err != nil {
		return &Error{Op: "insert", Kind: KindStorage, ID: g.ID, Err: err}
	}
	return nil
}

// Get returns the game stored under id. A missing game is reported with
// found == false and a nil error.
func (s *Store) Get(ctx context.Context, id string) (g Game, found bool, err error) {
	if err := ctx.Err(); err != nil {
		return Game{}, false, err
	}
	data, err := s.bucket.Get([]byte(id))
	if errors.Is(err, kvstore.ErrNotFound) {
		return Game{}, false, nil
	}
	if err != nil {
		return Game{}, false, &Error{Op: "get", Kind: KindStorage, ID: id, Err: err}
	}
	g, err = Unmarshal(data)
	if err != nil {
		return Game{}, false, &Error{Op: "get", Kind: KindSerialization, ID: id, Err: err}
	}
	return g, true, nil
}

// All returns every stored game in id order. A record that fails to decode
// aborts the scan; no partial result is returned.
func (s *Store) All(ctx context.Context) ([]Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var games []Game
	var decodeErr *Error
	err := s.bucket.Scan(func(key, value []byte) error {
		g, err := Unmarshal(value)
		if err != nil {
			decodeErr = &Error{Op: "all", Kind: KindSerialization, ID: string(key), Err: err}
			return decodeErr
		}
		games = append(games, g)
		return nil
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if err != nil {
		return nil, &Error{Op: "all", Kind: KindStorage, Err: err}
	}
	return games, nil
}
