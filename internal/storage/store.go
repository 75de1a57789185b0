// Package storage provides abstractions for the committed expense sequence.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Store defines the interface for expense storage operations.
// Stores are append-only: expenses are never updated, reordered or deleted.
// Ids are assigned by the ledger before AppendExpense is called.
type Store interface {
	// AppendExpense adds a committed expense to the end of the sequence.
	AppendExpense(ctx context.Context, expense models.Expense) error

	// ListExpenses returns all expenses in commit order.
	// The returned expenses are copies the caller may keep.
	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
