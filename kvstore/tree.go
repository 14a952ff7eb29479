package kvstore

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// Bucket is the set of operations available on a tree, either on its own or
// bound to a transaction.
type Bucket interface {
	// Get returns a copy of the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)
	// Insert stores value under key, replacing any existing value.
	Insert(key, value []byte) error
	// Scan calls fn for every key of the tree in key order. Scanning stops at
	// the first error returned by fn, and that error is returned.
	Scan(fn func(key, value []byte) error) error
}

// Tree is a namespaced collection inside a DB. Each method on Tree runs in its
// own transaction; writes are committed before the method returns.
type Tree struct {
	db     *DB
	name   string
	prefix []byte
}

var (
	_ Bucket = (*Tree)(nil)
	_ Bucket = (*boundTree)(nil)
)

// Name returns the tree's name.
func (t *Tree) Name() string {
	return t.name
}

func (t *Tree) Get(key []byte) ([]byte, error) {
	var val []byte
	err := t.db.db.View(func(txn *badger.Txn) error {
		var err error
		val, err = get(txn, t.prefix, key)
		return err
	})
	return val, translateErr(err)
}

func (t *Tree) Insert(key, value []byte) error {
	return translateErr(t.db.db.Update(func(txn *badger.Txn) error {
		return insert(txn, t.prefix, key, value)
	}))
}

func (t *Tree) Scan(fn func(key, value []byte) error) error {
	return translateErr(t.db.db.View(func(txn *badger.Txn) error {
		return scan(txn, t.prefix, fn)
	}))
}

// Len counts the keys in the tree without reading values.
func (t *Tree) Len() (int, error) {
	n := 0
	err := t.db.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = t.prefix

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(t.prefix); it.ValidForPrefix(t.prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, translateErr(err)
}

// encodeKey never yields an empty badger key, so the empty key is a valid
// tree key.
func encodeKey(prefix, key []byte) []byte {
	buf := make([]byte, 0, len(prefix)+len(key))
	buf = append(buf, prefix...)
	return append(buf, key...)
}

func get(txn *badger.Txn, prefix, key []byte) ([]byte, error) {
	item, err := txn.Get(encodeKey(prefix, key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func insert(txn *badger.Txn, prefix, key, value []byte) error {
	return txn.Set(encodeKey(prefix, key), value)
}

func scan(txn *badger.Txn, prefix []byte, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		key := item.KeyCopy(nil)[len(prefix):]
		if err := fn(key, val); err != nil {
			return err
		}
	}
	return nil
}
