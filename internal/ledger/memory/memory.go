// Package memory is an in-memory ledger repository, used as the default
// backend and by tests.
package memory

import (
	"context"
	"sync"

	"contable/internal/core"
	"contable/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	records []core.TransactionRecord
}

var _ ledger.Repository = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Seed replaces the store contents, for tests and local fixtures.
func (s *Store) Seed(records []core.TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]core.TransactionRecord(nil), records...)
}

func (s *Store) Load(_ context.Context) ([]core.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.TransactionRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) Append(_ context.Context, records []core.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *Store) MarkFixed(_ context.Context, keys []core.ObligationKey) error {
	if len(keys) == 0 {
		return nil
	}
	want := make(map[core.ObligationKey]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if _, ok := want[s.records[i].Key()]; ok {
			s.records[i].IsFixed = true
		}
	}
	return nil
}
