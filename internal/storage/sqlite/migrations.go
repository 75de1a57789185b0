package sqlite

import "database/sql"

// schema sets up the expense tables. It runs when the store is opened.
// Expenses must be created BEFORE shares and attachments due to foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS expenses (
    id INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    amount REAL NOT NULL CHECK (amount > 0),
    payer TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expense_shares (
    expense_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    participant TEXT NOT NULL,
    PRIMARY KEY (expense_id, participant),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS attachments (
    id INTEGER PRIMARY KEY,
    expense_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    size_bytes INTEGER NOT NULL CHECK (size_bytes >= 0),
    reference TEXT NOT NULL,
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_expense_shares_expense_id ON expense_shares(expense_id);
CREATE INDEX IF NOT EXISTS idx_attachments_expense_id ON attachments(expense_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
