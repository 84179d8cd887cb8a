package service

import (
	"context"
	"fmt"
	"time"

	"library-server/internal/models"
)

// Checkout lends a book to a patron. The book must exist and be exactly
// Available (a Reserved or Lost book cannot be checked out through this
// path), and the patron must exist. On success a Checkout ledger entry is
// appended and the book moves to Checked Out with its borrow counters
// updated, atomically.
func (s *DefaultService) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.Transaction, error) {
	book, err := s.repo.GetBook(ctx, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("error getting book: %w", err)
	}

	if book == nil {
		return nil, ErrBookNotFound
	}

	if book.Status != models.StatusAvailable {
		return nil, ErrBookNotAvailable
	}

	patron, err := s.repo.GetPatron(ctx, req.PatronID)
	if err != nil {
		return nil, fmt.Errorf("error getting patron: %w", err)
	}

	if patron == nil {
		return nil, ErrPatronNotFound
	}

	checkoutDate := time.Now().UTC()
	txn := newCheckoutTransaction(req.BookID, req.PatronID, checkoutDate, req.DueDate.UTC(), req.Notes)

	book.Status = models.StatusCheckedOut
	book.TimesCheckedOut++
	book.LastBorrowed = &checkoutDate

	if err := s.repo.AppendCirculation(ctx, txn, book); err != nil {
		return nil, fmt.Errorf("error recording checkout: %w", err)
	}

	return txn, nil
}

// Return takes a lent book back. The book must be Checked Out and have an
// open checkout; the Return ledger entry references that checkout's id and
// the book moves back to Available. TimesCheckedOut and LastBorrowed are
// untouched.
func (s *DefaultService) Return(ctx context.Context, req models.ReturnRequest) (*models.Transaction, error) {
	book, err := s.repo.GetBook(ctx, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("error getting book: %w", err)
	}

	if book == nil {
		return nil, ErrBookNotFound
	}

	if book.Status != models.StatusCheckedOut {
		return nil, ErrBookNotCheckedOut
	}

	checkout, err := s.repo.GetOpenCheckout(ctx, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("error finding open checkout: %w", err)
	}

	if checkout == nil {
		return nil, ErrNoOpenCheckout
	}

	txn := newReturnTransaction(checkout, time.Now().UTC(), req.Notes)

	book.Status = models.StatusAvailable

	if err := s.repo.AppendCirculation(ctx, txn, book); err != nil {
		return nil, fmt.Errorf("error recording return: %w", err)
	}

	return txn, nil
}

// Circulation ledger entries. A Return closes the checkout it references;
// open-ness of a checkout is decided solely by that back-reference.

func newCheckoutTransaction(bookID, patronID int64, checkoutDate, dueDate time.Time, notes *string) *models.Transaction {
	return &models.Transaction{
		BookID:          &bookID,
		PatronID:        &patronID,
		TransactionType: models.TypeCheckout,
		CheckoutDate:    &checkoutDate,
		DueDate:         &dueDate,
		Notes:           notes,
		Timestamp:       time.Now().UTC(),
	}
}

func newReturnTransaction(checkout *models.Transaction, returnDate time.Time, notes *string) *models.Transaction {
	return &models.Transaction{
		BookID:          checkout.BookID,
		PatronID:        checkout.PatronID,
		TransactionType: models.TypeReturn,
		CheckoutID:      &checkout.ID,
		CheckoutDate:    checkout.CheckoutDate,
		ReturnDate:      &returnDate,
		Notes:           notes,
		Timestamp:       time.Now().UTC(),
	}
}
