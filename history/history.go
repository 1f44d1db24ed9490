// Package history keeps the in-memory wave log shown by the portal view.
package history

import (
	"math/big"
	"sync"
	"time"
)

// Record is a single wave as displayed to the user.
type Record struct {
	Address   string
	Timestamp time.Time
	Message   string
}

// NewRecord builds a Record from the raw contract values. A timestamp that
// does not fit in int64 seconds is left as the zero time.
func NewRecord(address string, epochSeconds *big.Int, message string) Record {
	var ts time.Time
	if epochSeconds != nil && epochSeconds.IsInt64() {
		ts = time.Unix(epochSeconds.Int64(), 0)
	}
	return Record{
		Address:   address,
		Timestamp: ts,
		Message:   message,
	}
}

// Store holds waves in the order they were received (oldest first).
// Records are never mutated or removed; the sequence is only appended to
// or swapped wholesale.
type Store struct {
	mu      sync.RWMutex
	records []Record
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// ReplaceAll swaps the whole sequence for records.
func (s *Store) ReplaceAll(records []Record) {
	next := make([]Record, len(records))
	copy(next, records)

	s.mu.Lock()
	s.records = next
	s.mu.Unlock()
}

// Append adds r after the most recent record.
func (s *Store) Append(r Record) {
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
}

// SnapshotReversed returns a copy of the records, most recent first.
func (s *Store) SnapshotReversed() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[len(s.records)-1-i] = r
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
