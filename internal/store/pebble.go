package store

import (
	"context"
	"errors"
	"time"

	"github.com/cockroachdb/pebble"
)

// PebbleStore is an embedded single-node backend on a Pebble LSM.
type PebbleStore struct {
	inner *pebble.DB
}

// NewPebbleStore creates or opens a Pebble database in dir.
func NewPebbleStore(dir string) (*PebbleStore, error) {
	if dir == "" {
		dir = "./data/scroll.pebble"
	}

	// Small group-commit window so concurrent sends share a WAL sync.
	po := &pebble.Options{}
	po.WALMinSyncInterval = func() time.Duration { return 2 * time.Millisecond }

	inner, err := pebble.Open(dir, po)
	if err != nil {
		return nil, err
	}
	return &PebbleStore{inner: inner}, nil
}

// Close closes the Pebble database.
func (s *PebbleStore) Close() error {
	if s == nil || s.inner == nil {
		return nil
	}
	return s.inner.Close()
}

// Ping only reports a cancelled context; an open Pebble handle is always ready.
func (s *PebbleStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Get copies the value for the given key.
func (s *PebbleStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	val, closer, err := s.inner.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

// Put writes a key and syncs the WAL.
func (s *PebbleStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.inner.Set([]byte(key), value, pebble.Sync)
}

// List iterates the key range covered by prefix.
func (s *PebbleStore) List(ctx context.Context, prefix string) (keys []string, err error) {
	opts := &pebble.IterOptions{LowerBound: []byte(prefix)}
	if hi := prefixUpperBound([]byte(prefix)); hi != nil {
		opts.UpperBound = hi
	}
	it, err := s.inner.NewIter(opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := it.Close(); err == nil {
			err = cerr
		}
	}()

	keys = make([]string, 0)
	for ok := it.First(); ok; ok = it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		keys = append(keys, string(it.Key()))
	}
	return keys, nil
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix, or nil when no such key exists.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
