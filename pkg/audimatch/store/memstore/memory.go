package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/store"
)

// Store is an in-memory catalog source for tests and embedded use.
type Store struct {
	mu      sync.RWMutex
	records []audience.Record
}

var (
	_ store.Source = (*Store)(nil)
	_ store.Writer = (*Store)(nil)
)

// New creates a store holding a copy of records.
func New(records []audience.Record) *Store {
	return &Store{records: copyRecords(records)}
}

// Close implements store.Source.
func (s *Store) Close() error { return nil }

// Records implements store.Source.
func (s *Store) Records(ctx context.Context) ([]audience.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRecords(s.records), nil
}

// ReplaceRecords implements store.Writer.
func (s *Store) ReplaceRecords(ctx context.Context, records []audience.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = copyRecords(records)
	return nil
}

func copyRecords(in []audience.Record) []audience.Record {
	out := make([]audience.Record, len(in))
	copy(out, in)
	return out
}
