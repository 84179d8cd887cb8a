// Package seed loads the fixed sample dataset the server boots with in lieu
// of a persistent database: 7 books, 7 patrons, 2 staff users and 8 ledger
// entries.
package seed

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"library-server/internal/models"
	"library-server/internal/repository"
)

// Load populates the store with the sample dataset. It is a no-op when the
// store already holds books, so a file-backed store is not re-seeded on
// restart.
func Load(ctx context.Context, repo repository.Repository) error {
	count, err := repo.CountBooks(ctx)
	if err != nil {
		return fmt.Errorf("seed: checking store: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := loadUsers(ctx, repo); err != nil {
		return err
	}

	now := time.Now().UTC()

	if err := loadBooks(ctx, repo, now); err != nil {
		return err
	}
	if err := loadPatrons(ctx, repo); err != nil {
		return err
	}
	return loadTransactions(ctx, repo, now)
}

func loadUsers(ctx context.Context, repo repository.Repository) error {
	users := []models.User{
		{Username: "admin", Name: "Administrator", Role: "admin"},
		{Username: "staff", Name: "John Doe", Role: "staff"},
	}

	// Both sample accounts use the password "password"
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hashing password: %w", err)
	}

	for i := range users {
		users[i].Password = string(hash)
		if err := repo.CreateUser(ctx, &users[i]); err != nil {
			return fmt.Errorf("seed: creating user %q: %w", users[i].Username, err)
		}
	}
	return nil
}

func loadBooks(ctx context.Context, repo repository.Repository, now time.Time) error {
	desc := func(s string) *string { return &s }
	borrowed := func(daysAgo int) *time.Time {
		t := now.AddDate(0, 0, -daysAgo)
		return &t
	}

	books := []models.Book{
		{
			ISBN:            "9780743273565",
			Title:           "The Great Gatsby",
			Author:          "F. Scott Fitzgerald",
			Publisher:       "Scribner",
			PublicationDate: "1925",
			Category:        "Fiction",
			Description:     desc("Set in the Jazz Age on Long Island, this novel depicts narrator Nick Carraway's interactions with mysterious millionaire Jay Gatsby and Gatsby's obsession to reunite with his former lover, Daisy Buchanan."),
			Status:          models.StatusCheckedOut,
			TimesCheckedOut: 1,
			LastBorrowed:    borrowed(0),
		},
		{
			ISBN:            "9780061120084",
			Title:           "To Kill a Mockingbird",
			Author:          "Harper Lee",
			Publisher:       "HarperCollins",
			PublicationDate: "1960",
			Category:        "Fiction",
			Description:     desc("The story of young Scout Finch and her father, attorney Atticus Finch, who defends a Black man accused of raping a white woman in the American South."),
			Status:          models.StatusAvailable,
		},
		{
			ISBN:            "9781501173219",
			Title:           "The Silent Patient",
			Author:          "Alex Michaelides",
			Publisher:       "Celadon Books",
			PublicationDate: "2019",
			Category:        "Fiction",
			Description:     desc("A psychological thriller about a woman who shoots her husband and then never speaks another word."),
			Status:          models.StatusAvailable,
		},
		{
			ISBN:            "9780451524935",
			Title:           "1984",
			Author:          "George Orwell",
			Publisher:       "Signet Classics",
			PublicationDate: "1949",
			Category:        "Fiction",
			Description:     desc("A dystopian novel set in a totalitarian society ruled by the Party, which has total control over every aspect of people's lives."),
			Status:          models.StatusCheckedOut,
			TimesCheckedOut: 1,
			LastBorrowed:    borrowed(21),
		},
		{
			ISBN:            "9780062315007",
			Title:           "The Alchemist",
			Author:          "Paulo Coelho",
			Publisher:       "HarperOne",
			PublicationDate: "1988",
			Category:        "Fiction",
			Description:     desc("A philosophical novel about a young Andalusian shepherd who dreams of finding a worldly treasure."),
			Status:          models.StatusCheckedOut,
			TimesCheckedOut: 1,
			LastBorrowed:    borrowed(16),
		},
		{
			ISBN:            "9780399590504",
			Title:           "Educated",
			Author:          "Tara Westover",
			Publisher:       "Random House",
			PublicationDate: "2018",
			Category:        "Non-Fiction",
			Description:     desc("A memoir about a woman who leaves her survivalist family and goes on to earn a PhD from Cambridge University."),
			Status:          models.StatusCheckedOut,
			TimesCheckedOut: 1,
			LastBorrowed:    borrowed(12),
		},
		{
			ISBN:            "9780062316097",
			Title:           "Sapiens",
			Author:          "Yuval Noah Harari",
			Publisher:       "Harper",
			PublicationDate: "2015",
			Category:        "Non-Fiction",
			Description:     desc("A brief history of humankind, exploring the evolution of humans from the Stone Age to the 21st century."),
			Status:          models.StatusCheckedOut,
			TimesCheckedOut: 1,
			LastBorrowed:    borrowed(10),
		},
	}

	for i := range books {
		if err := repo.CreateBook(ctx, &books[i]); err != nil {
			return fmt.Errorf("seed: creating book %q: %w", books[i].Title, err)
		}
	}
	return nil
}

func loadPatrons(ctx context.Context, repo repository.Repository) error {
	patrons := []models.Patron{
		{Name: "Maria Santos", ContactInfo: "maria.santos@example.com"},
		{Name: "James Wilson", ContactInfo: "james.wilson@example.com"},
		{Name: "Ana Reyes", ContactInfo: "ana.reyes@example.com"},
		{Name: "Emily Johnson", ContactInfo: "emily.johnson@example.com"},
		{Name: "Michael Brown", ContactInfo: "michael.brown@example.com"},
		{Name: "David Lee", ContactInfo: "david.lee@example.com"},
		{Name: "Robert Chen", ContactInfo: "robert.chen@example.com"},
	}

	for i := range patrons {
		patrons[i].MembershipStatus = "Active"
		if err := repo.CreatePatron(ctx, &patrons[i]); err != nil {
			return fmt.Errorf("seed: creating patron %q: %w", patrons[i].Name, err)
		}
	}
	return nil
}

// loadTransactions writes the sample ledger. Book 2's Return predates the
// ledger and references no checkout; books 4 through 7 are out on checkouts
// that are already overdue by 7, 8, 5 and 3 days.
func loadTransactions(ctx context.Context, repo repository.Repository, now time.Time) error {
	days := func(offset int) *time.Time {
		t := now.AddDate(0, 0, offset)
		return &t
	}
	id := func(v int64) *int64 { return &v }

	txns := []models.Transaction{
		{
			BookID:          id(1),
			PatronID:        id(1),
			TransactionType: models.TypeCheckout,
			CheckoutDate:    days(0),
			DueDate:         days(14),
		},
		{
			BookID:          id(2),
			PatronID:        id(2),
			TransactionType: models.TypeReturn,
			CheckoutDate:    days(-1),
			ReturnDate:      days(0),
		},
		{
			BookID:          id(3),
			TransactionType: models.TypeNewBook,
		},
		{
			PatronID:        id(7),
			TransactionType: models.TypeNewPatron,
		},
		{
			BookID:          id(4),
			PatronID:        id(3),
			TransactionType: models.TypeCheckout,
			CheckoutDate:    days(-21),
			DueDate:         days(-7),
		},
		{
			BookID:          id(5),
			PatronID:        id(4),
			TransactionType: models.TypeCheckout,
			CheckoutDate:    days(-16),
			DueDate:         days(-8),
		},
		{
			BookID:          id(6),
			PatronID:        id(5),
			TransactionType: models.TypeCheckout,
			CheckoutDate:    days(-12),
			DueDate:         days(-5),
		},
		{
			BookID:          id(7),
			PatronID:        id(6),
			TransactionType: models.TypeCheckout,
			CheckoutDate:    days(-10),
			DueDate:         days(-3),
		},
	}

	for i := range txns {
		if err := repo.CreateTransaction(ctx, &txns[i]); err != nil {
			return fmt.Errorf("seed: creating transaction %d: %w", i+1, err)
		}
	}
	return nil
}
