// Package memory provides an in-memory implementation of the storage.Store interface.
package memory

import (
	"context"
	"sync"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps committed expenses in a slice guarded by a mutex.
type Store struct {
	mu       sync.RWMutex
	expenses []models.Expense
}

// New creates an empty Store.
func New() *Store {
	return &Store{expenses: make([]models.Expense, 0)}
}

// AppendExpense stores a copy of expense. It never fails.
func (s *Store) AppendExpense(_ context.Context, expense models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses = append(s.expenses, expense.Clone())
	return nil
}

// ListExpenses returns copies of all expenses in commit order.
func (s *Store) ListExpenses(_ context.Context) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Expense, len(s.expenses))
	for i, e := range s.expenses {
		out[i] = e.Clone()
	}
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
