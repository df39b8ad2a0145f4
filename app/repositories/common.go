package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix  = "post:"
	GroupKeyPrefix = "group:"
	UserKeyPrefix  = "user:"

	// Unique index prefixes, each mapping a natural key to an entity ID
	GroupSlugIndexPrefix = "group_slug:"
	UserNameIndexPrefix  = "user_name:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey  = "seq:post"
	GroupSeqKey = "seq:group"
	UserSeqKey  = "seq:user"
)

// entityKey builds a zero-padded key so that Badger's byte ordering matches ID order.
func entityKey(prefix string, id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", prefix, id))
}

func indexKey(prefix, value string) []byte {
	return []byte(prefix + value)
}

// seqBandwidth is how many IDs one sequence lease reserves.
const seqBandwidth = 100

// maxTxnAttempts bounds the retries of a transaction that lost a conflict.
const maxTxnAttempts = 20

// idSequence hands out entity IDs from a Badger leased sequence. IDs start
// at 1. The lease is taken on first use, so opening a store writes nothing.
type idSequence struct {
	db  *badger.DB
	key []byte

	mu  sync.Mutex
	seq *badger.Sequence
}

func newIDSequence(db *badger.DB, key string) *idSequence {
	return &idSequence{db: db, key: []byte(key)}
}

// next returns the next unused ID.
func (s *idSequence) next() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq == nil {
		seq, err := s.db.GetSequence(s.key, seqBandwidth)
		if err != nil {
			return 0, fmt.Errorf("lease sequence %s: %w", s.key, err)
		}
		s.seq = seq
	}
	n, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next id from %s: %w", s.key, err)
	}
	return int(n) + 1, nil
}

// release hands unused leased IDs back, so the stored counter is exact.
// The next call to next takes a fresh lease.
func (s *idSequence) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq == nil {
		return nil
	}
	err := s.seq.Release()
	s.seq = nil
	return err
}

// update runs fn in a read-write transaction and runs it again when Badger
// rejects the commit because a concurrent transaction wrote a key fn read.
// fn must be safe to repeat.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// lookupIndex resolves a unique index key to the entity ID it holds.
func lookupIndex(txn *badger.Txn, key []byte) (int, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	var id int
	err = item.Value(func(val []byte) error {
		id, err = strconv.Atoi(string(val))
		return err
	})
	return id, err
}

// getEntity loads and decodes the value stored at key, mapping a missing key to ErrNotFound.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
