package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"library-server/internal/models"
)

// SQLiteRepository implements the Repository interface on a SQLite store,
// in-memory by default.
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *SQLiteRepository) GetDB() *sqlx.DB {
	return r.db
}

// Book repository methods

func (r *SQLiteRepository) CreateBook(ctx context.Context, book *models.Book) error {
	if book.AddedDate.IsZero() {
		book.AddedDate = time.Now().UTC()
	}
	if book.Status == "" {
		book.Status = models.StatusAvailable
	}

	query := `
		INSERT INTO books (isbn, title, author, publisher, publication_date,
			category, description, status, added_date, times_checked_out, last_borrowed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		book.ISBN, book.Title, book.Author, book.Publisher, book.PublicationDate,
		book.Category, book.Description, book.Status, book.AddedDate,
		book.TimesCheckedOut, book.LastBorrowed)
	if err != nil {
		return err
	}

	book.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteRepository) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	query := `SELECT * FROM books WHERE id = ?`

	var book models.Book
	err := r.db.GetContext(ctx, &book, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Book not found
		}
		return nil, err
	}

	return &book, nil
}

func (r *SQLiteRepository) GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	query := `SELECT * FROM books WHERE isbn = ?`

	var book models.Book
	err := r.db.GetContext(ctx, &book, query, isbn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &book, nil
}

func (r *SQLiteRepository) GetAllBooks(ctx context.Context, category, status string) ([]models.Book, error) {
	query := `SELECT * FROM books WHERE 1=1`
	args := []interface{}{}

	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY id ASC`

	books := []models.Book{}
	err := r.db.SelectContext(ctx, &books, query, args...)
	if err != nil {
		return nil, err
	}

	return books, nil
}

func (r *SQLiteRepository) UpdateBook(ctx context.Context, book *models.Book) error {
	query := `
		UPDATE books
		SET isbn = ?, title = ?, author = ?, publisher = ?, publication_date = ?,
			category = ?, description = ?, status = ?, times_checked_out = ?, last_borrowed = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		book.ISBN, book.Title, book.Author, book.Publisher, book.PublicationDate,
		book.Category, book.Description, book.Status, book.TimesCheckedOut,
		book.LastBorrowed, book.ID)

	return err
}

func (r *SQLiteRepository) DeleteBook(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Patron repository methods

func (r *SQLiteRepository) CreatePatron(ctx context.Context, patron *models.Patron) error {
	if patron.RegisteredDate.IsZero() {
		patron.RegisteredDate = time.Now().UTC()
	}
	if patron.MembershipStatus == "" {
		patron.MembershipStatus = "Active"
	}

	query := `
		INSERT INTO patrons (name, contact_info, membership_status, registered_date)
		VALUES (?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		patron.Name, patron.ContactInfo, patron.MembershipStatus, patron.RegisteredDate)
	if err != nil {
		return err
	}

	patron.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteRepository) GetPatron(ctx context.Context, id int64) (*models.Patron, error) {
	query := `SELECT * FROM patrons WHERE id = ?`

	var patron models.Patron
	err := r.db.GetContext(ctx, &patron, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Patron not found
		}
		return nil, err
	}

	return &patron, nil
}

func (r *SQLiteRepository) GetAllPatrons(ctx context.Context) ([]models.Patron, error) {
	patrons := []models.Patron{}
	err := r.db.SelectContext(ctx, &patrons, `SELECT * FROM patrons ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}

	return patrons, nil
}

func (r *SQLiteRepository) UpdatePatron(ctx context.Context, patron *models.Patron) error {
	query := `
		UPDATE patrons
		SET name = ?, contact_info = ?, membership_status = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		patron.Name, patron.ContactInfo, patron.MembershipStatus, patron.ID)

	return err
}

func (r *SQLiteRepository) DeletePatron(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patrons WHERE id = ?`, id)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Ledger repository methods

const insertTransactionQuery = `
	INSERT INTO transactions (book_id, patron_id, transaction_type, checkout_id,
		checkout_date, due_date, return_date, notes, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, insertTransactionQuery,
		txn.BookID, txn.PatronID, txn.TransactionType, txn.CheckoutID,
		txn.CheckoutDate, txn.DueDate, txn.ReturnDate, txn.Notes, txn.Timestamp)
	if err != nil {
		return err
	}

	txn.ID, err = res.LastInsertId()
	return err
}

// AppendCirculation writes a ledger entry and the updated book row in a
// single database transaction.
func (r *SQLiteRepository) AppendCirculation(ctx context.Context, txn *models.Transaction, book *models.Book) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx, insertTransactionQuery,
		txn.BookID, txn.PatronID, txn.TransactionType, txn.CheckoutID,
		txn.CheckoutDate, txn.DueDate, txn.ReturnDate, txn.Notes, txn.Timestamp)
	if err != nil {
		return err
	}

	txn.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE books
		SET status = ?, times_checked_out = ?, last_borrowed = ?
		WHERE id = ?`,
		book.Status, book.TimesCheckedOut, book.LastBorrowed, book.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetAllTransactions(ctx context.Context) ([]models.Transaction, error) {
	txns := []models.Transaction{}
	err := r.db.SelectContext(ctx, &txns, `SELECT * FROM transactions ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}

	return txns, nil
}

func (r *SQLiteRepository) GetRecentTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	query := `SELECT * FROM transactions ORDER BY timestamp DESC, id DESC LIMIT ?`

	txns := []models.Transaction{}
	err := r.db.SelectContext(ctx, &txns, query, limit)
	if err != nil {
		return nil, err
	}

	return txns, nil
}

func (r *SQLiteRepository) GetTransactionsByBook(ctx context.Context, bookID int64) ([]models.Transaction, error) {
	query := `SELECT * FROM transactions WHERE book_id = ? ORDER BY timestamp DESC, id DESC`

	txns := []models.Transaction{}
	err := r.db.SelectContext(ctx, &txns, query, bookID)
	if err != nil {
		return nil, err
	}

	return txns, nil
}

func (r *SQLiteRepository) GetTransactionsByPatron(ctx context.Context, patronID int64) ([]models.Transaction, error) {
	query := `SELECT * FROM transactions WHERE patron_id = ? ORDER BY timestamp DESC, id DESC`

	txns := []models.Transaction{}
	err := r.db.SelectContext(ctx, &txns, query, patronID)
	if err != nil {
		return nil, err
	}

	return txns, nil
}

// GetOpenCheckout returns the oldest checkout of the book that no return
// entry references, or nil when the book has no open checkout.
func (r *SQLiteRepository) GetOpenCheckout(ctx context.Context, bookID int64) (*models.Transaction, error) {
	query := `
		SELECT * FROM transactions t
		WHERE t.transaction_type = ? AND t.book_id = ?
			AND NOT EXISTS (
				SELECT 1 FROM transactions ret
				WHERE ret.transaction_type = ? AND ret.checkout_id = t.id
			)
		ORDER BY t.id ASC
		LIMIT 1
	`

	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn, query, models.TypeCheckout, bookID, models.TypeReturn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No open checkout
		}
		return nil, err
	}

	return &txn, nil
}

// GetOverdueCheckouts returns open checkouts whose due date has passed,
// soonest-due first.
func (r *SQLiteRepository) GetOverdueCheckouts(ctx context.Context, now time.Time) ([]models.Transaction, error) {
	query := `
		SELECT * FROM transactions t
		WHERE t.transaction_type = ?
			AND t.due_date IS NOT NULL AND t.due_date < ?
			AND NOT EXISTS (
				SELECT 1 FROM transactions ret
				WHERE ret.transaction_type = ? AND ret.checkout_id = t.id
			)
		ORDER BY t.due_date ASC
	`

	txns := []models.Transaction{}
	err := r.db.SelectContext(ctx, &txns, query, models.TypeCheckout, now.UTC(), models.TypeReturn)
	if err != nil {
		return nil, err
	}

	return txns, nil
}

// Aggregate repository methods

func (r *SQLiteRepository) CountBooks(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM books`)
	return count, err
}

func (r *SQLiteRepository) CountBooksByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM books WHERE status = ?`, status)
	return count, err
}

func (r *SQLiteRepository) CountPatronsByMembership(ctx context.Context, membershipStatus string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM patrons WHERE membership_status = ?`, membershipStatus)
	return count, err
}

func (r *SQLiteRepository) GetCategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*) AS count
		FROM books
		GROUP BY category
		ORDER BY category ASC
	`

	counts := []models.CategoryCount{}
	err := r.db.SelectContext(ctx, &counts, query)
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// User repository methods

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = "staff"
	}

	query := `INSERT INTO users (username, password, name, role) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Password, user.Name, user.Role)
	if err != nil {
		return err
	}

	user.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT * FROM users WHERE username = ?`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = ?`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}
