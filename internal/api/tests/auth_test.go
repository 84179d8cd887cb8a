package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"library-server/internal/api/testutils"
	"library-server/internal/models"
)

func TestLogin(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: Successful login returns the user without the password
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		models.LoginRequest{Username: "admin", Password: "password"},
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	testutils.Decode(t, w, &user)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "admin", user.Role)
	assert.NotContains(t, w.Body.String(), "password")

	cookies := w.Result().Cookies()
	assert.NotEmpty(t, cookies, "login should set a session cookie")

	// Test case 2: Wrong password
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		models.LoginRequest{Username: "admin", Password: "wrongpassword"},
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: Unknown user
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		models.LoginRequest{Username: "nobody", Password: "password"},
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 4: Missing fields
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		models.LoginRequest{Username: "admin"},
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionGate(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Without a session cookie the API is closed
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/books", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A garbage cookie is rejected too
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/books", nil,
		testutils.SessionHeaders("library_session=not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// With the session cookie it is open
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/books", nil,
		testutils.SessionHeaders(testCtx.SessionCookie))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCurrentUser(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/auth/me", nil,
		testutils.SessionHeaders(testCtx.SessionCookie))

	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	testutils.Decode(t, w, &user)
	assert.Equal(t, "staff", user.Username)
	assert.Equal(t, "John Doe", user.Name)
	assert.NotContains(t, w.Body.String(), "password")

	// No cookie, no user
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/auth/logout", nil,
		testutils.SessionHeaders(testCtx.SessionCookie))

	assert.Equal(t, http.StatusOK, w.Code)

	// The session cookie is cleared
	cleared := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "library_session" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout should expire the session cookie")

	// Logout without a session is still a 200
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReferenceLists(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	headers := testutils.SessionHeaders(testCtx.SessionCookie)

	var categories []string
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/reference/categories", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)
	testutils.Decode(t, w, &categories)
	assert.Len(t, categories, 5)
	assert.Contains(t, categories, "Periodicals")

	var statuses []string
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/reference/statuses", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)
	testutils.Decode(t, w, &statuses)
	assert.Len(t, statuses, 6)
	assert.Contains(t, statuses, "Checked Out")

	var types []string
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/reference/transaction-types", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)
	testutils.Decode(t, w, &types)
	assert.Len(t, types, 5)
	assert.True(t, strings.Contains(strings.Join(types, ","), "Overdue"))
}
