package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(strings.ReplaceAll(t.Name(), "/", "_"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("ListExpenses on empty store", func(t *testing.T) {
		expenses, err := store.ListExpenses(ctx)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected 0 expenses, got %d", len(expenses))
		}
	})

	t.Run("AppendExpense round trips shares and attachments", func(t *testing.T) {
		original := models.Expense{
			ID:          1,
			Description: "Dinner",
			Amount:      90,
			Payer:       "Ada",
			SharedWith:  []models.Participant{"Wicko", "John"},
			Attachments: []models.Attachment{
				{ID: 7, Name: "receipt.pdf", SizeBytes: 2048, Reference: "blob:1"},
				{ID: 8, Name: "photo.jpg", SizeBytes: 0, Reference: "blob:2"},
			},
		}
		if err := store.AppendExpense(ctx, original); err != nil {
			t.Fatalf("AppendExpense failed: %v", err)
		}

		expenses, err := store.ListExpenses(ctx)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Fatalf("Expected 1 expense, got %d", len(expenses))
		}

		got := expenses[0]
		if got.ID != original.ID || got.Description != original.Description || got.Payer != original.Payer {
			t.Errorf("Expense mismatch: got %+v, want %+v", got, original)
		}
		if got.Amount != original.Amount {
			t.Errorf("Amount mismatch: got %f, want %f", got.Amount, original.Amount)
		}
		// Shares keep their original order
		if len(got.SharedWith) != 2 || got.SharedWith[0] != "Wicko" || got.SharedWith[1] != "John" {
			t.Errorf("SharedWith mismatch: got %v", got.SharedWith)
		}
		if len(got.Attachments) != 2 {
			t.Fatalf("Attachments count mismatch: got %d, want 2", len(got.Attachments))
		}
		for i, a := range got.Attachments {
			if a != original.Attachments[i] {
				t.Errorf("Attachment %d mismatch: got %+v, want %+v", i, a, original.Attachments[i])
			}
		}
	})

	t.Run("Expenses are listed in commit order", func(t *testing.T) {
		for _, e := range []models.Expense{
			{ID: 2, Description: "Taxi", Amount: 30, Payer: "John", SharedWith: []models.Participant{"Ada"}},
			{ID: 3, Description: "Coffee", Amount: 4.5, Payer: "Wicko"},
		} {
			if err := store.AppendExpense(ctx, e); err != nil {
				t.Fatalf("AppendExpense failed: %v", err)
			}
		}

		expenses, err := store.ListExpenses(ctx)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		want := []string{"Dinner", "Taxi", "Coffee"}
		if len(expenses) != len(want) {
			t.Fatalf("Expected %d expenses, got %d", len(want), len(expenses))
		}
		for i, desc := range want {
			if expenses[i].Description != desc {
				t.Errorf("Expense %d: got %s, want %s", i, expenses[i].Description, desc)
			}
		}
		if len(expenses[2].SharedWith) != 0 {
			t.Errorf("Solo expense should have no shares, got %v", expenses[2].SharedWith)
		}
	})

	t.Run("Duplicate id is rejected and leaves state unchanged", func(t *testing.T) {
		err := store.AppendExpense(ctx, models.Expense{ID: 1, Description: "Again", Amount: 1, Payer: "Ada"})
		if err == nil {
			t.Fatal("Expected error for duplicate id, got nil")
		}

		expenses, err := store.ListExpenses(ctx)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 3 {
			t.Errorf("Expected 3 expenses, got %d", len(expenses))
		}
	})
}

func TestNew_RequiresName(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("Expected error for empty name, got nil")
	}
}

func TestNew_SeparateNamesAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := newTestStore(t)
	b, err := New(t.Name() + "_other")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer b.Close()

	if err := a.AppendExpense(ctx, models.Expense{ID: 1, Description: "Dinner", Amount: 9, Payer: "Ada"}); err != nil {
		t.Fatalf("AppendExpense failed: %v", err)
	}

	expenses, err := b.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("Expected isolated store to be empty, got %d expenses", len(expenses))
	}
}
