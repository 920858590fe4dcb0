package airports

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

var keyPrefix = []byte("apt/")

// Index is an on-disk copy of a coordinate table, keyed by airport code, so
// later runs can resolve the handful of codes they need without parsing the
// full airports CSV again.
type Index struct {
	db    *badger.DB
	cache sync.Map
}

func OpenIndex(path string) (*Index, error) {
	opts := badger.DefaultOptions(path)
	// Decrease logging verbosity
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Index{db: db}, nil
}

func (idx *Index) Close() error {
	return idx.db.Close()
}

func indexKey(code string) []byte {
	key := make([]byte, 0, len(keyPrefix)+len(code))
	key = append(key, keyPrefix...)
	return append(key, code...)
}

// Import writes every airport of t in one batch.
func (idx *Index) Import(t *Table) error {
	wb := idx.db.NewWriteBatch()
	defer wb.Cancel()

	for _, code := range t.Codes() {
		a, _ := t.Lookup(code)
		val, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", code, err)
		}
		if err := wb.Set(indexKey(code), val); err != nil {
			return err
		}
		idx.cache.Delete(code)
	}
	return wb.Flush()
}

// Lookup returns the airport stored under code.
func (idx *Index) Lookup(code string) (Airport, bool, error) {
	if v, ok := idx.cache.Load(code); ok {
		if v == nil {
			return Airport{}, false, nil
		}
		return v.(Airport), true, nil
	}

	var a Airport
	err := idx.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey(code))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		idx.cache.Store(code, nil)
		return Airport{}, false, nil
	}
	if err != nil {
		return Airport{}, false, err
	}
	idx.cache.Store(code, a)
	return a, true, nil
}

// Resolve builds an immutable table holding only the requested codes that
// the index knows about.
func (idx *Index) Resolve(codes []string) (*Table, error) {
	entries := make(map[string]Airport, len(codes))
	for _, code := range codes {
		a, ok, err := idx.Lookup(code)
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", code, err)
		}
		if ok {
			entries[code] = a
		}
	}
	return NewTable(entries), nil
}

// Count returns the number of airports stored.
func (idx *Index) Count() (int, error) {
	n := 0
	err := idx.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
