package service

import (
	"context"
	"time"

	"library-server/internal/models"
	"library-server/internal/repository"
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
	SessionTTL() time.Duration

	// Catalog
	ListBooks(ctx context.Context, category, status string) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	AddBook(ctx context.Context, req models.InsertBookRequest) (*models.Book, error)
	UpdateBook(ctx context.Context, id int64, req models.UpdateBookRequest) (*models.Book, error)
	RemoveBook(ctx context.Context, id int64) error

	// Patron registry
	ListPatrons(ctx context.Context) ([]models.Patron, error)
	GetPatron(ctx context.Context, id int64) (*models.Patron, error)
	RegisterPatron(ctx context.Context, req models.InsertPatronRequest) (*models.Patron, error)
	UpdatePatron(ctx context.Context, id int64, req models.UpdatePatronRequest) (*models.Patron, error)
	RemovePatron(ctx context.Context, id int64) error

	// Circulation
	Checkout(ctx context.Context, req models.CheckoutRequest) (*models.Transaction, error)
	Return(ctx context.Context, req models.ReturnRequest) (*models.Transaction, error)

	// Ledger views
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error)
	OverdueCheckouts(ctx context.Context) ([]models.OverdueTransaction, error)
	BookHistory(ctx context.Context, bookID int64) ([]models.Transaction, error)
	PatronHistory(ctx context.Context, patronID int64) ([]models.Transaction, error)

	// Dashboard
	DashboardMetrics(ctx context.Context) (*models.DashboardMetrics, error)
	CategoryStats(ctx context.Context) ([]models.CategoryCount, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	sessionSecret []byte
	sessionTTL    time.Duration
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, sessionSecret string, sessionTTL time.Duration) Service {
	return &DefaultService{
		repo:          repo,
		sessionSecret: []byte(sessionSecret),
		sessionTTL:    sessionTTL,
	}
}
