package kvstore

import "github.com/dgraph-io/badger/v4"

// Tx is an open transaction, valid only inside the function passed to
// DB.Update or DB.View.
type Tx struct {
	db  *DB
	txn *badger.Txn
}

// Bind returns a view of t that reads and writes through the transaction.
// Writes become visible to others only when the transaction commits.
func (tx *Tx) Bind(t *Tree) Bucket {
	if t.db != tx.db {
		panic("kvstore: tree " + t.name + " belongs to a different DB")
	}
	return &boundTree{txn: tx.txn, prefix: t.prefix}
}

type boundTree struct {
	txn    *badger.Txn
	prefix []byte
}

func (b *boundTree) Get(key []byte) ([]byte, error) {
	return get(b.txn, b.prefix, key)
}

func (b *boundTree) Insert(key, value []byte) error {
	return insert(b.txn, b.prefix, key, value)
}

func (b *boundTree) Scan(fn func(key, value []byte) error) error {
	return scan(b.txn, b.prefix, fn)
}
