package service

import (
	"context"
	"fmt"
	"time"

	"library-server/internal/models"
)

// Ledger views. All of these are recomputed from the ledger and current
// book/patron snapshots on every call; nothing is cached.

func (s *DefaultService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	txns, err := s.repo.GetAllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}

	return txns, nil
}

// RecentActivity returns the latest ledger entries, newest first, each
// enriched with the referenced book and patron if they still exist.
func (s *DefaultService) RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	txns, err := s.repo.GetRecentTransactions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recent transactions: %w", err)
	}

	entries := make([]models.ActivityEntry, 0, len(txns))
	for _, txn := range txns {
		entry := models.ActivityEntry{Transaction: txn}

		if txn.BookID != nil {
			book, err := s.repo.GetBook(ctx, *txn.BookID)
			if err != nil {
				return nil, fmt.Errorf("error loading book snapshot: %w", err)
			}
			entry.Book = book // nil when the book has been deleted
		}

		if txn.PatronID != nil {
			patron, err := s.repo.GetPatron(ctx, *txn.PatronID)
			if err != nil {
				return nil, fmt.Errorf("error loading patron snapshot: %w", err)
			}
			entry.Patron = patron
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// OverdueCheckouts returns the open checkouts whose due date has passed,
// each with the whole number of days it is late.
func (s *DefaultService) OverdueCheckouts(ctx context.Context) ([]models.OverdueTransaction, error) {
	now := time.Now().UTC()

	txns, err := s.repo.GetOverdueCheckouts(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("error listing overdue checkouts: %w", err)
	}

	overdue := make([]models.OverdueTransaction, 0, len(txns))
	for _, txn := range txns {
		overdue = append(overdue, models.OverdueTransaction{
			Transaction: txn,
			DaysLate:    daysLate(*txn.DueDate, now),
		})
	}

	return overdue, nil
}

func daysLate(dueDate, now time.Time) int {
	return int(now.Sub(dueDate).Hours() / 24)
}

// BookHistory returns the ledger entries for a book, newest first.
func (s *DefaultService) BookHistory(ctx context.Context, bookID int64) ([]models.Transaction, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("error getting book: %w", err)
	}

	if book == nil {
		return nil, ErrBookNotFound
	}

	txns, err := s.repo.GetTransactionsByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("error listing book transactions: %w", err)
	}

	return txns, nil
}

// PatronHistory returns the ledger entries for a patron, newest first. A
// deleted patron yields an empty history even though ledger entries still
// carry the stale patronId; those entries stay reachable through the books
// they reference.
func (s *DefaultService) PatronHistory(ctx context.Context, patronID int64) ([]models.Transaction, error) {
	patron, err := s.repo.GetPatron(ctx, patronID)
	if err != nil {
		return nil, fmt.Errorf("error getting patron: %w", err)
	}

	if patron == nil {
		return []models.Transaction{}, nil
	}

	txns, err := s.repo.GetTransactionsByPatron(ctx, patronID)
	if err != nil {
		return nil, fmt.Errorf("error listing patron transactions: %w", err)
	}

	return txns, nil
}

// DashboardMetrics computes the dashboard summary from the current store
// state.
func (s *DefaultService) DashboardMetrics(ctx context.Context) (*models.DashboardMetrics, error) {
	totalBooks, err := s.repo.CountBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting books: %w", err)
	}

	booksCheckedOut, err := s.repo.CountBooksByStatus(ctx, models.StatusCheckedOut)
	if err != nil {
		return nil, fmt.Errorf("error counting checked out books: %w", err)
	}

	activePatrons, err := s.repo.CountPatronsByMembership(ctx, "Active")
	if err != nil {
		return nil, fmt.Errorf("error counting active patrons: %w", err)
	}

	overdue, err := s.repo.GetOverdueCheckouts(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("error counting overdue checkouts: %w", err)
	}

	return &models.DashboardMetrics{
		TotalBooks:      totalBooks,
		BooksCheckedOut: booksCheckedOut,
		ActivePatrons:   activePatrons,
		OverdueBooks:    len(overdue),
	}, nil
}

// CategoryStats returns the per-category book counts for categories with at
// least one book.
func (s *DefaultService) CategoryStats(ctx context.Context) ([]models.CategoryCount, error) {
	counts, err := s.repo.GetCategoryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error computing category stats: %w", err)
	}

	return counts, nil
}
