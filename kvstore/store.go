// Package kvstore is a small embedded key-value store backed by BadgerDB.
//
// A single DB holds any number of trees. A tree is a namespaced collection of
// keys; every key of a tree is stored in badger as
//
//	[tree name][0x00][key]
//
// Trees can be read and written on their own, in which case every call is its own
// badger transaction, or bound to a Tx so several trees are read and written
// atomically.
package kvstore

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

const treeSeparator byte = 0x00

var (
	// ErrNotFound is returned by Get when the key is absent from the tree.
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrConflict is returned when a transaction could not commit because a key it
	// read was written by another transaction that committed first.
	ErrConflict = errors.New("kvstore: transaction conflict")
)

// Options configures the badger instance.
type Options struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool
	// Logger receives badger's own log output. If nil, logging is disabled.
	Logger *slog.Logger
}

// DB is an open storage instance. It is safe for concurrent use.
type DB struct {
	db *badger.DB

	mu    sync.Mutex
	trees map[string]*Tree
}

// Open opens (or creates) the storage instance described by opts.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options
	if opts.Path == "" || opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Path)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(slogAdapter{opts.Logger})
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &DB{
		db:    db,
		trees: make(map[string]*Tree),
	}, nil
}

// Close closes the underlying badger database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Tree returns the tree with the given name. Trees need no creation step, so
// asking for a tree that holds no keys yet is fine.
func (d *DB) Tree(name string) (*Tree, error) {
	if name == "" {
		return nil, fmt.Errorf("tree name is required")
	}
	if bytes.IndexByte([]byte(name), treeSeparator) >= 0 {
		return nil, fmt.Errorf("tree name %q contains a NUL byte", name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.trees[name]; ok {
		return t, nil
	}
	t := &Tree{
		db:     d,
		name:   name,
		prefix: append([]byte(name), treeSeparator),
	}
	d.trees[name] = t
	return t, nil
}

// Update runs fn inside one read-write transaction. If fn returns an error nothing
// is written. Trees bound with tx.Bind are read and written atomically.
func (d *DB) Update(fn func(tx *Tx) error) error {
	return translateErr(d.db.Update(func(txn *badger.Txn) error {
		return fn(&Tx{db: d, txn: txn})
	}))
}

// View runs fn inside a read-only transaction with a consistent snapshot of all trees.
func (d *DB) View(fn func(tx *Tx) error) error {
	return translateErr(d.db.View(func(txn *badger.Txn) error {
		return fn(&Tx{db: d, txn: txn})
	}))
}

func translateErr(err error) error {
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
