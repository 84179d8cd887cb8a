package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SetupDatabase opens the SQLite store and creates the schema. The
// connection pool is capped at a single connection: an in-memory SQLite
// database exists per connection, and requests are served serially against
// one store.
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dsn(cfg.Database.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return "file::memory:?_loc=UTC"
	}
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_loc=UTC", path)
}

// createTables creates the store tables if they don't exist. Transactions
// deliberately carry no foreign keys: deleting a book or patron leaves its
// ledger entries in place with stale ids.
func createTables(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS books (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			isbn TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			publisher TEXT NOT NULL,
			publication_date TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'Available',
			added_date TIMESTAMP NOT NULL,
			times_checked_out INTEGER NOT NULL DEFAULT 0,
			last_borrowed TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS patrons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			contact_info TEXT NOT NULL,
			membership_status TEXT NOT NULL DEFAULT 'Active',
			registered_date TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			book_id INTEGER,
			patron_id INTEGER,
			transaction_type TEXT NOT NULL,
			checkout_id INTEGER,
			checkout_date TIMESTAMP,
			due_date TIMESTAMP,
			return_date TIMESTAMP,
			notes TEXT,
			timestamp TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'staff'
		)
	`)
	if err != nil {
		return err
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_book_id ON transactions(book_id)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_patron_id ON transactions(patron_id)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_checkout_id ON transactions(checkout_id)",
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}
