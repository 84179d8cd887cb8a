package service

import (
	"context"
	"fmt"
	"time"

	"library-server/internal/models"
)

// Catalog operations

func (s *DefaultService) ListBooks(ctx context.Context, category, status string) ([]models.Book, error) {
	books, err := s.repo.GetAllBooks(ctx, category, status)
	if err != nil {
		return nil, fmt.Errorf("error listing books: %w", err)
	}

	return books, nil
}

func (s *DefaultService) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting book: %w", err)
	}

	if book == nil {
		return nil, ErrBookNotFound
	}

	return book, nil
}

// AddBook creates a catalog entry and records a "New Book" ledger entry.
func (s *DefaultService) AddBook(ctx context.Context, req models.InsertBookRequest) (*models.Book, error) {
	existing, err := s.repo.GetBookByISBN(ctx, req.ISBN)
	if err != nil {
		return nil, fmt.Errorf("error checking ISBN: %w", err)
	}

	if existing != nil {
		return nil, ErrDuplicateISBN
	}

	status := req.Status
	if status == "" {
		status = models.StatusAvailable
	}

	book := &models.Book{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationDate: req.PublicationDate,
		Category:        req.Category,
		Description:     req.Description,
		Status:          status,
	}

	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("error creating book: %w", err)
	}

	if err := s.repo.CreateTransaction(ctx, newBookAddedTransaction(book.ID)); err != nil {
		return nil, fmt.Errorf("error recording new book: %w", err)
	}

	return book, nil
}

// UpdateBook merges the supplied fields into the stored book. Status changes
// made here are staff overrides: the engine never moves a book into or out of
// Reserved, Processing, Lost or Damaged on its own.
func (s *DefaultService) UpdateBook(ctx context.Context, id int64, req models.UpdateBookRequest) (*models.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting book: %w", err)
	}

	if book == nil {
		return nil, ErrBookNotFound
	}

	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.PublicationDate != nil {
		book.PublicationDate = *req.PublicationDate
	}
	if req.Category != nil {
		book.Category = *req.Category
	}
	if req.Description != nil {
		book.Description = req.Description
	}
	if req.Status != nil {
		book.Status = *req.Status
	}

	if err := s.repo.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("error updating book: %w", err)
	}

	return book, nil
}

// RemoveBook deletes the catalog entry. Ledger entries referencing the book
// are left untouched.
func (s *DefaultService) RemoveBook(ctx context.Context, id int64) error {
	found, err := s.repo.DeleteBook(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting book: %w", err)
	}

	if !found {
		return ErrBookNotFound
	}

	return nil
}

// Patron registry operations

func (s *DefaultService) ListPatrons(ctx context.Context) ([]models.Patron, error) {
	patrons, err := s.repo.GetAllPatrons(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing patrons: %w", err)
	}

	return patrons, nil
}

func (s *DefaultService) GetPatron(ctx context.Context, id int64) (*models.Patron, error) {
	patron, err := s.repo.GetPatron(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting patron: %w", err)
	}

	if patron == nil {
		return nil, ErrPatronNotFound
	}

	return patron, nil
}

// RegisterPatron creates a patron and records a "New Patron" ledger entry.
func (s *DefaultService) RegisterPatron(ctx context.Context, req models.InsertPatronRequest) (*models.Patron, error) {
	patron := &models.Patron{
		Name:             req.Name,
		ContactInfo:      req.ContactInfo,
		MembershipStatus: req.MembershipStatus,
	}

	if err := s.repo.CreatePatron(ctx, patron); err != nil {
		return nil, fmt.Errorf("error creating patron: %w", err)
	}

	if err := s.repo.CreateTransaction(ctx, newPatronAddedTransaction(patron.ID)); err != nil {
		return nil, fmt.Errorf("error recording new patron: %w", err)
	}

	return patron, nil
}

func (s *DefaultService) UpdatePatron(ctx context.Context, id int64, req models.UpdatePatronRequest) (*models.Patron, error) {
	patron, err := s.repo.GetPatron(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting patron: %w", err)
	}

	if patron == nil {
		return nil, ErrPatronNotFound
	}

	if req.Name != nil {
		patron.Name = *req.Name
	}
	if req.ContactInfo != nil {
		patron.ContactInfo = *req.ContactInfo
	}
	if req.MembershipStatus != nil {
		patron.MembershipStatus = *req.MembershipStatus
	}

	if err := s.repo.UpdatePatron(ctx, patron); err != nil {
		return nil, fmt.Errorf("error updating patron: %w", err)
	}

	return patron, nil
}

// RemovePatron deletes the patron. Ledger entries referencing the patron are
// left untouched; their patronId goes stale.
func (s *DefaultService) RemovePatron(ctx context.Context, id int64) error {
	found, err := s.repo.DeletePatron(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting patron: %w", err)
	}

	if !found {
		return ErrPatronNotFound
	}

	return nil
}

// Registration ledger entries. Transactions are only built through these
// per-kind constructors so each kind carries exactly the fields legal for it.

func newBookAddedTransaction(bookID int64) *models.Transaction {
	return &models.Transaction{
		BookID:          &bookID,
		TransactionType: models.TypeNewBook,
		Timestamp:       time.Now().UTC(),
	}
}

func newPatronAddedTransaction(patronID int64) *models.Transaction {
	return &models.Transaction{
		PatronID:        &patronID,
		TransactionType: models.TypeNewPatron,
		Timestamp:       time.Now().UTC(),
	}
}
