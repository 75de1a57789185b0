// Package events publishes ledger events to other systems.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ExpenseCommitted is emitted after an expense enters the ledger.
type ExpenseCommitted struct {
	EventID     string          `json:"event_id"`
	ExpenseID   int64           `json:"expense_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Payer       string          `json:"payer"`
	SharedWith  []string        `json:"shared_with"`
	Attachments int             `json:"attachments"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// NewExpenseCommitted builds the event for a committed expense.
func NewExpenseCommitted(e models.Expense, at time.Time) ExpenseCommitted {
	shared := make([]string, len(e.SharedWith))
	for i, p := range e.SharedWith {
		shared[i] = string(p)
	}
	return ExpenseCommitted{
		EventID:     uuid.New().String(),
		ExpenseID:   e.ID,
		Description: e.Description,
		Amount:      decimal.NewFromFloat(e.Amount),
		Payer:       string(e.Payer),
		SharedWith:  shared,
		Attachments: len(e.Attachments),
		OccurredAt:  at.UTC(),
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishExpenseCommitted(ctx context.Context, event ExpenseCommitted) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishExpenseCommitted(context.Context, ExpenseCommitted) error { return nil }

func (Nop) Close() error { return nil }
