package repository

import (
	"context"
	"time"

	"library-server/internal/models"
)

// Repository interface defines the methods that any store implementation must
// satisfy. Lookups return (nil, nil) when the id is absent; deletes report
// found/not-found through their boolean.
type Repository interface {
	// Book operations
	CreateBook(ctx context.Context, book *models.Book) error
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error)
	GetAllBooks(ctx context.Context, category, status string) ([]models.Book, error)
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id int64) (bool, error)

	// Patron operations
	CreatePatron(ctx context.Context, patron *models.Patron) error
	GetPatron(ctx context.Context, id int64) (*models.Patron, error)
	GetAllPatrons(ctx context.Context) ([]models.Patron, error)
	UpdatePatron(ctx context.Context, patron *models.Patron) error
	DeletePatron(ctx context.Context, id int64) (bool, error)

	// Ledger operations. The ledger is append-only: entries are never
	// updated or deleted. AppendCirculation writes a ledger entry and the
	// resulting book state together so a failed operation applies nothing.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	AppendCirculation(ctx context.Context, txn *models.Transaction, book *models.Book) error
	GetAllTransactions(ctx context.Context) ([]models.Transaction, error)
	GetRecentTransactions(ctx context.Context, limit int) ([]models.Transaction, error)
	GetTransactionsByBook(ctx context.Context, bookID int64) ([]models.Transaction, error)
	GetTransactionsByPatron(ctx context.Context, patronID int64) ([]models.Transaction, error)
	GetOpenCheckout(ctx context.Context, bookID int64) (*models.Transaction, error)
	GetOverdueCheckouts(ctx context.Context, now time.Time) ([]models.Transaction, error)

	// Aggregates for the dashboard
	CountBooks(ctx context.Context) (int, error)
	CountBooksByStatus(ctx context.Context, status string) (int, error)
	CountPatronsByMembership(ctx context.Context, membershipStatus string) (int, error)
	GetCategoryCounts(ctx context.Context) ([]models.CategoryCount, error)

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
