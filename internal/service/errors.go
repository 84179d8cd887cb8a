package service

import "errors"

// Domain outcomes the API layer maps to status codes. Not-found and
// invalid-state failures are terminal per request: no retries, no partial
// ledger writes.
var (
	ErrBookNotFound       = errors.New("book not found")
	ErrPatronNotFound     = errors.New("patron not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateISBN      = errors.New("a book with this ISBN already exists")
	ErrBookNotAvailable   = errors.New("book is not available for checkout")
	ErrBookNotCheckedOut  = errors.New("book is not checked out")
	ErrNoOpenCheckout     = errors.New("no active checkout found for this book")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
