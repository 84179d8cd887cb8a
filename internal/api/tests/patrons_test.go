package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"library-server/internal/api/testutils"
	"library-server/internal/models"
)

func TestListPatrons(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/patrons", nil,
		testutils.SessionHeaders(testCtx.SessionCookie))

	assert.Equal(t, http.StatusOK, w.Code)

	var patrons []models.Patron
	testutils.Decode(t, w, &patrons)
	assert.Len(t, patrons, 7)
	for _, p := range patrons {
		assert.Equal(t, "Active", p.MembershipStatus)
		assert.False(t, p.RegisteredDate.IsZero())
	}
}

func TestGetPatron(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	headers := testutils.SessionHeaders(testCtx.SessionCookie)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/patrons/1", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	var patron models.Patron
	testutils.Decode(t, w, &patron)
	assert.Equal(t, "Maria Santos", patron.Name)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/patrons/999", nil, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePatron(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	headers := testutils.SessionHeaders(testCtx.SessionCookie)

	// Test case 1: Successful registration defaults to Active membership
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/patrons", models.InsertPatronRequest{
		Name:        "Grace Hopper",
		ContactInfo: "grace.hopper@example.com",
	}, headers)

	assert.Equal(t, http.StatusCreated, w.Code)

	var patron models.Patron
	testutils.Decode(t, w, &patron)
	assert.Equal(t, int64(8), patron.ID)
	assert.Equal(t, "Active", patron.MembershipStatus)
	assert.False(t, patron.RegisteredDate.IsZero())

	// Registration is recorded in the ledger
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/patrons/8/transactions", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	var txns []models.Transaction
	testutils.Decode(t, w, &txns)
	assert.Len(t, txns, 1)
	assert.Equal(t, models.TypeNewPatron, txns[0].TransactionType)

	// Test case 2: Missing required fields
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/patrons", models.InsertPatronRequest{
		Name: "No Contact",
	}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 3: Unknown membership status
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/patrons", models.InsertPatronRequest{
		Name:             "Bad Status",
		ContactInfo:      "bad.status@example.com",
		MembershipStatus: "Banned",
	}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePatron(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	headers := testutils.SessionHeaders(testCtx.SessionCookie)

	// Test case 1: Partial update
	status := "Suspended"
	w := testutils.PerformRequest(testCtx.Router, http.MethodPut, "/api/patrons/2", models.UpdatePatronRequest{
		MembershipStatus: &status,
	}, headers)

	assert.Equal(t, http.StatusOK, w.Code)

	var patron models.Patron
	testutils.Decode(t, w, &patron)
	assert.Equal(t, "Suspended", patron.MembershipStatus)
	assert.Equal(t, "James Wilson", patron.Name)

	// Test case 2: Unknown patron
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut, "/api/patrons/999", models.UpdatePatronRequest{
		MembershipStatus: &status,
	}, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePatron(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	headers := testutils.SessionHeaders(testCtx.SessionCookie)

	w := testutils.PerformRequest(testCtx.Router, http.MethodDelete, "/api/patrons/7", nil, headers)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/patrons/7", nil, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, "/api/patrons/7", nil, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
