package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"library-server/internal/api/testutils"
	"library-server/internal/models"
)

func TestListTransactions(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/transactions", nil,
		testutils.SessionHeaders(testCtx.SessionCookie))

	assert.Equal(t, http.StatusOK, w.Code)

	var txns []models.Transaction
	testutils.Decode(t, w, &txns)
	assert.Len(t, txns, 8)

	// The ledger holds every transaction type the engine writes
	types := map[string]int{}
	for _, txn := range txns {
		types[txn.TransactionType]++
	}
	assert.Equal(t, 5, types[models.TypeCheckout])
	assert.Equal(t, 1, types[models.TypeReturn])
	assert.Equal(t, 1, types[models.TypeNewBook])
	assert.Equal(t, 1, types[models.TypeNewPatron])
}

func TestRecentTransactions(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	headers := testutils.SessionHeaders(testCtx.SessionCookie)

	// Test case 1: Default limit is 5, newest first, enriched with book and
	// patron snapshots
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/transactions/recent", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	var entries []models.ActivityEntry
	testutils.Decode(t, w, &entries)
	assert.Len(t, entries, 5)
	assert.Equal(t, int64(8), entries[0].ID)

	first := entries[0]
	assert.NotNil(t, first.Book)
	assert.Equal(t, "Sapiens", first.Book.Title)
	assert.NotNil(t, first.Patron)
	assert.Equal(t, "David Lee", first.Patron.Name)

	// Test case 2: Explicit limit
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/transactions/recent?limit=2", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	testutils.Decode(t, w, &entries)
	assert.Len(t, entries, 2)

	// Test case 3: Limit larger than the ledger returns everything
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/transactions/recent?limit=50", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	testutils.Decode(t, w, &entries)
	assert.Len(t, entries, 8)

	// Test case 4: Bad limits
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/transactions/recent?limit=abc", nil, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/transactions/recent?limit=-1", nil, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecentTransactionsAfterDeletion(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	headers := testutils.SessionHeaders(testCtx.SessionCookie)

	// Deleting the book referenced by the newest entry drops its snapshot but
	// keeps the entry itself
	w := testutils.PerformRequest(testCtx.Router, http.MethodDelete, "/api/books/7", nil, headers)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/transactions/recent?limit=1", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	var entries []models.ActivityEntry
	testutils.Decode(t, w, &entries)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(7), *entries[0].BookID)
	assert.Nil(t, entries[0].Book)
	assert.NotNil(t, entries[0].Patron)
}

func TestOverdueTransactions(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	headers := testutils.SessionHeaders(testCtx.SessionCookie)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/transactions/overdue", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	var overdue []models.OverdueTransaction
	testutils.Decode(t, w, &overdue)
	assert.Len(t, overdue, 4)

	// Soonest-due first, each annotated with whole days late
	assert.Equal(t, int64(5), *overdue[0].BookID)
	assert.Equal(t, 8, overdue[0].DaysLate)
	assert.Equal(t, int64(4), *overdue[1].BookID)
	assert.Equal(t, 7, overdue[1].DaysLate)
	assert.Equal(t, int64(6), *overdue[2].BookID)
	assert.Equal(t, 5, overdue[2].DaysLate)
	assert.Equal(t, int64(7), *overdue[3].BookID)
	assert.Equal(t, 3, overdue[3].DaysLate)

	// Returning an overdue book removes it from the list
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/circulation/return", models.ReturnRequest{
		BookID: 5,
	}, headers)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/transactions/overdue", nil, headers)
	testutils.Decode(t, w, &overdue)
	assert.Len(t, overdue, 3)
	assert.Equal(t, int64(4), *overdue[0].BookID)
}

func TestBookTransactions(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	headers := testutils.SessionHeaders(testCtx.SessionCookie)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/books/1/transactions", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	var txns []models.Transaction
	testutils.Decode(t, w, &txns)
	assert.Len(t, txns, 1)
	assert.Equal(t, models.TypeCheckout, txns[0].TransactionType)

	// Unknown book
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/books/999/transactions", nil, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatronTransactionsAfterDeletion(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	headers := testutils.SessionHeaders(testCtx.SessionCookie)

	// Patron 3 holds the overdue checkout of book 4
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/patrons/3/transactions", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	var txns []models.Transaction
	testutils.Decode(t, w, &txns)
	assert.Len(t, txns, 1)

	// Deleting the patron empties their history without touching the ledger
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, "/api/patrons/3", nil, headers)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/patrons/3/transactions", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	// The entry is still reachable through the book and keeps the stale
	// patron id
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/books/4/transactions", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	testutils.Decode(t, w, &txns)
	assert.Len(t, txns, 1)
	assert.Equal(t, int64(3), *txns[0].PatronID)
}
