// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
//
// The database always lives in memory and disappears with the process; it
// gives the session a queryable copy of the ledger, not durability.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using an in-memory SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// New opens an in-memory database identified by name and runs migrations.
// Stores opened with the same name in one process share the database.
func New(name string) (*SQLiteStore, error) {
	if name == "" {
		return nil, fmt.Errorf("database name required")
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(name))

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps the in-memory database alive and serializes writes.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection. The in-memory data is discarded.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendExpense inserts an expense with its shares and attachments in one transaction.
func (s *SQLiteStore) AppendExpense(ctx context.Context, expense models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, description, amount, payer) VALUES (?, ?, ?, ?)",
		expense.ID, expense.Description, expense.Amount, string(expense.Payer),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, p := range expense.SharedWith {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, position, participant) VALUES (?, ?, ?)",
			expense.ID, i, string(p),
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	for i, a := range expense.Attachments {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO attachments (id, expense_id, position, name, size_bytes, reference) VALUES (?, ?, ?, ?, ?, ?)",
			a.ID, expense.ID, i, a.Name, a.SizeBytes, a.Reference,
		)
		if err != nil {
			return fmt.Errorf("failed to insert attachment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListExpenses retrieves all expenses in commit order, including shares and attachments.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, payer FROM expenses ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []models.Expense
	index := make(map[int64]int)
	for rows.Next() {
		var e models.Expense
		var payer string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &payer); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Payer = models.Participant(payer)
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Get shares for all expenses
	shareRows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, participant FROM expense_shares ORDER BY expense_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	for shareRows.Next() {
		var expenseID int64
		var participant string
		if err := shareRows.Scan(&expenseID, &participant); err != nil {
			shareRows.Close()
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		e := &expenses[index[expenseID]]
		e.SharedWith = append(e.SharedWith, models.Participant(participant))
	}
	shareRows.Close()
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	// Get attachments for all expenses
	attachmentRows, err := s.db.QueryContext(ctx,
		"SELECT id, expense_id, name, size_bytes, reference FROM attachments ORDER BY expense_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachments: %w", err)
	}
	for attachmentRows.Next() {
		var a models.Attachment
		var expenseID int64
		if err := attachmentRows.Scan(&a.ID, &expenseID, &a.Name, &a.SizeBytes, &a.Reference); err != nil {
			attachmentRows.Close()
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		e := &expenses[index[expenseID]]
		e.Attachments = append(e.Attachments, a)
	}
	attachmentRows.Close()
	if err := attachmentRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachments: %w", err)
	}

	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}
