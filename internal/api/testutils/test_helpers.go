package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"library-server/internal/api"
	"library-server/internal/config"
	"library-server/internal/models"
	"library-server/internal/repository"
	"library-server/internal/seed"
	"library-server/internal/service"
	"library-server/internal/utils"
)

// TestContext holds all dependencies for tests. Every test context gets its
// own in-memory store loaded with the sample dataset and a logged-in staff
// session.
type TestContext struct {
	Router        *gin.Engine
	Repository    repository.Repository
	Service       service.Service
	DB            *sqlx.DB
	SessionCookie string
}

// SetupTestContext creates a new test context with initialized dependencies
func SetupTestContext(t *testing.T) *TestContext {
	cfg := config.LoadConfig()
	cfg.Database.Path = ":memory:"
	cfg.Auth.SessionSecret = "test-secret-key"

	db, err := config.SetupDatabase(cfg)
	assert.NoError(t, err, "Failed to set up test store")

	repo := repository.NewSQLiteRepository(db)

	err = seed.Load(context.Background(), repo)
	assert.NoError(t, err, "Failed to seed test store")

	svc := service.NewDefaultService(repo, cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	handler := api.NewHandler(svc, utils.NewLogger())

	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Set("sessionSecret", []byte(cfg.Auth.SessionSecret))
		c.Next()
	})

	handler.SetupRoutes(router)

	return &TestContext{
		Router:        router,
		Repository:    repo,
		Service:       svc,
		DB:            db,
		SessionCookie: login(t, router),
	}
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(t *TestContext) {
	if t.DB != nil {
		t.DB.Close()
	}
}

// login authenticates as the seeded staff user and returns the session
// cookie to send with subsequent requests.
func login(t *testing.T, router http.Handler) string {
	w := PerformRequest(router, http.MethodPost, "/api/auth/login", models.LoginRequest{
		Username: "staff",
		Password: "password",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code, "Failed to log in test session")

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == api.SessionCookieName {
			return cookie.Name + "=" + cookie.Value
		}
	}

	t.Fatal("login response carried no session cookie")
	return ""
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// SessionHeaders returns headers carrying the session cookie
func SessionHeaders(cookie string) map[string]string {
	return map[string]string{
		"Cookie": cookie,
	}
}

// Decode unmarshals a JSON response body into out
func Decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "Failed to decode response body")
}
