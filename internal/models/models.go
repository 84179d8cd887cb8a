package models

import (
	"time"
)

// Book categories accepted by the catalog.
var BookCategories = []string{
	"Fiction",
	"Non-Fiction",
	"Reference",
	"Periodicals",
	"Other",
}

const (
	StatusAvailable  = "Available"
	StatusCheckedOut = "Checked Out"
)

// Book statuses. Only Available and Checked Out are driven by the
// circulation engine; the other four are set by staff through book updates
// and the engine never transitions into or out of them.
var BookStatuses = []string{
	StatusAvailable,
	StatusCheckedOut,
	"Reserved",
	"Processing",
	"Lost",
	"Damaged",
}

const (
	TypeCheckout  = "Checkout"
	TypeReturn    = "Return"
	TypeNewBook   = "New Book"
	TypeNewPatron = "New Patron"
	TypeOverdue   = "Overdue"
)

// Transaction types recorded in the circulation ledger. TypeOverdue is part
// of the ledger vocabulary but is never written by the engine: overdue-ness
// is computed from due dates at read time.
var TransactionTypes = []string{
	TypeCheckout,
	TypeReturn,
	TypeNewBook,
	TypeNewPatron,
	TypeOverdue,
}

// Book represents a catalog entry. Status, TimesCheckedOut and LastBorrowed
// are mutated only by the circulation engine, except that staff edits may set
// any status directly.
type Book struct {
	ID              int64      `db:"id" json:"id"`
	ISBN            string     `db:"isbn" json:"isbn"`
	Title           string     `db:"title" json:"title"`
	Author          string     `db:"author" json:"author"`
	Publisher       string     `db:"publisher" json:"publisher"`
	PublicationDate string     `db:"publication_date" json:"publicationDate"`
	Category        string     `db:"category" json:"category"`
	Description     *string    `db:"description" json:"description,omitempty"`
	Status          string     `db:"status" json:"status"`
	AddedDate       time.Time  `db:"added_date" json:"addedDate"`
	TimesCheckedOut int        `db:"times_checked_out" json:"timesCheckedOut"`
	LastBorrowed    *time.Time `db:"last_borrowed" json:"lastBorrowed,omitempty"`
}

// Patron represents a registered library member.
type Patron struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	ContactInfo      string    `db:"contact_info" json:"contactInfo"`
	MembershipStatus string    `db:"membership_status" json:"membershipStatus"`
	RegisteredDate   time.Time `db:"registered_date" json:"registeredDate"`
}

// Transaction is an append-only circulation ledger entry. Which optional
// fields are set depends on TransactionType. Return entries carry CheckoutID,
// an explicit back-reference to the Checkout entry they close; a Checkout is
// "open" while no Return references its id.
type Transaction struct {
	ID              int64      `db:"id" json:"id"`
	BookID          *int64     `db:"book_id" json:"bookId,omitempty"`
	PatronID        *int64     `db:"patron_id" json:"patronId,omitempty"`
	TransactionType string     `db:"transaction_type" json:"transactionType"`
	CheckoutID      *int64     `db:"checkout_id" json:"checkoutId,omitempty"`
	CheckoutDate    *time.Time `db:"checkout_date" json:"checkoutDate,omitempty"`
	DueDate         *time.Time `db:"due_date" json:"dueDate,omitempty"`
	ReturnDate      *time.Time `db:"return_date" json:"returnDate,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	Timestamp       time.Time  `db:"timestamp" json:"timestamp"`
}

// User represents a staff account.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"` // bcrypt hash, never returned in JSON
	Name     string `db:"name" json:"name"`
	Role     string `db:"role" json:"role"`
}

// OverdueTransaction is an open checkout whose due date has passed, annotated
// with how many whole days late it is.
type OverdueTransaction struct {
	Transaction
	DaysLate int `json:"daysLate"`
}

// ActivityEntry is a ledger entry enriched at read time with snapshots of the
// book and patron it references. Either snapshot is omitted when the entity
// has since been deleted.
type ActivityEntry struct {
	Transaction
	Book   *Book   `json:"book,omitempty"`
	Patron *Patron `json:"patron,omitempty"`
}

// DashboardMetrics is the summary block on the dashboard view.
type DashboardMetrics struct {
	TotalBooks      int `json:"totalBooks"`
	BooksCheckedOut int `json:"booksCheckedOut"`
	ActivePatrons   int `json:"activePatrons"`
	OverdueBooks    int `json:"overdueBooks"`
}

// CategoryCount is one row of the dashboard category histogram.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}
