// Package memory is an in-process TransactionExporter used when no
// spreadsheet is configured and in tests.
package memory

import (
	"context"
	"sync"

	"lupa/internal/core"
	"lupa/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	order []string
	rows  map[string]sheets.Row
}

var _ sheets.TransactionExporter = (*Store)(nil)

func New() *Store {
	return &Store{rows: make(map[string]sheets.Row)}
}

func (s *Store) ExportTransaction(_ context.Context, tx core.Transaction, methodName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[tx.ID]; !ok {
		s.order = append(s.order, tx.ID)
	}
	s.rows[tx.ID] = sheets.RowFor(tx, methodName)
	return nil
}

func (s *Store) RemoveTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return nil
	}
	delete(s.rows, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Rows returns the exported rows in first-export order.
func (s *Store) Rows() []sheets.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sheets.Row, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rows[id])
	}
	return out
}
