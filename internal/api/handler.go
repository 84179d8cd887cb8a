package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-server/internal/models"
	"library-server/internal/service"
	"library-server/internal/utils"
)

// Handler translates HTTP requests into service calls
type Handler struct {
	svc    service.Service
	logger *utils.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, logger *utils.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

// SetupRoutes registers all API routes on the router. Everything except
// login and logout sits behind the session gate.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", h.logout)

	protected := api.Group("")
	protected.Use(SessionMiddleware())

	protected.GET("/auth/me", h.currentUser)

	protected.GET("/books", h.listBooks)
	protected.GET("/books/:id", h.getBook)
	protected.POST("/books", h.createBook)
	protected.PUT("/books/:id", h.updateBook)
	protected.DELETE("/books/:id", h.deleteBook)
	protected.GET("/books/:id/transactions", h.bookTransactions)

	protected.GET("/patrons", h.listPatrons)
	protected.GET("/patrons/:id", h.getPatron)
	protected.POST("/patrons", h.createPatron)
	protected.PUT("/patrons/:id", h.updatePatron)
	protected.DELETE("/patrons/:id", h.deletePatron)
	protected.GET("/patrons/:id/transactions", h.patronTransactions)

	protected.GET("/transactions", h.listTransactions)
	protected.GET("/transactions/recent", h.recentTransactions)
	protected.GET("/transactions/overdue", h.overdueTransactions)

	protected.POST("/circulation/checkout", h.checkout)
	protected.POST("/circulation/return", h.returnBook)

	protected.GET("/dashboard/metrics", h.dashboardMetrics)
	protected.GET("/dashboard/category-stats", h.categoryStats)

	protected.GET("/reference/categories", h.referenceCategories)
	protected.GET("/reference/statuses", h.referenceStatuses)
	protected.GET("/reference/transaction-types", h.referenceTransactionTypes)
}

// Auth handlers

func (h *Handler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.svc.SessionTTL().Seconds()))
	c.JSON(http.StatusOK, user)
}

func (h *Handler) logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) currentUser(c *gin.Context) {
	userID := c.MustGet("userId").(int64)

	user, err := h.svc.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		// The session points at a user that no longer exists
		if errors.Is(err, service.ErrUserNotFound) {
			h.setSessionCookie(c, "", -1)
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "User not found",
			})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", false, true)
}

// Book handlers

func (h *Handler) listBooks(c *gin.Context) {
	books, err := h.svc.ListBooks(c.Request.Context(), c.Query("category"), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, books)
}

func (h *Handler) getBook(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	book, err := h.svc.GetBook(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *Handler) createBook(c *gin.Context) {
	var req models.InsertBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	book, err := h.svc.AddBook(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, book)
}

func (h *Handler) updateBook(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req models.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	book, err := h.svc.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *Handler) deleteBook(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.svc.RemoveBook(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) bookTransactions(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	txns, err := h.svc.BookHistory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txns)
}

// Patron handlers

func (h *Handler) listPatrons(c *gin.Context) {
	patrons, err := h.svc.ListPatrons(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, patrons)
}

func (h *Handler) getPatron(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	patron, err := h.svc.GetPatron(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, patron)
}

func (h *Handler) createPatron(c *gin.Context) {
	var req models.InsertPatronRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	patron, err := h.svc.RegisterPatron(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, patron)
}

func (h *Handler) updatePatron(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req models.UpdatePatronRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	patron, err := h.svc.UpdatePatron(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, patron)
}

func (h *Handler) deletePatron(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.svc.RemovePatron(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) patronTransactions(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	txns, err := h.svc.PatronHistory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txns)
}

// Transaction handlers

func (h *Handler) listTransactions(c *gin.Context) {
	txns, err := h.svc.ListTransactions(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txns)
}

func (h *Handler) recentTransactions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "VALIDATION",
			Message: "limit must be a positive integer",
		})
		return
	}

	entries, err := h.svc.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *Handler) overdueTransactions(c *gin.Context) {
	overdue, err := h.svc.OverdueCheckouts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overdue)
}

// Circulation handlers

func (h *Handler) checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	txn, err := h.svc.Checkout(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

func (h *Handler) returnBook(c *gin.Context) {
	var req models.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	txn, err := h.svc.Return(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// Dashboard handlers

func (h *Handler) dashboardMetrics(c *gin.Context) {
	metrics, err := h.svc.DashboardMetrics(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) categoryStats(c *gin.Context) {
	stats, err := h.svc.CategoryStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Reference data handlers

func (h *Handler) referenceCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.BookCategories)
}

func (h *Handler) referenceStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, models.BookStatuses)
}

func (h *Handler) referenceTransactionTypes(c *gin.Context) {
	c.JSON(http.StatusOK, models.TransactionTypes)
}

// Helpers

func (h *Handler) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "VALIDATION",
			Message: "id must be an integer",
		})
		return 0, false
	}
	return id, true
}

func (h *Handler) respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "VALIDATION",
		Message: err.Error(),
	})
}

// respondError maps domain outcomes to status codes: not-found to 404,
// invalid-state to 400, duplicates to 409, bad credentials to 401 and
// everything else to a generic 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrPatronNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrBookNotAvailable),
		errors.Is(err, service.ErrBookNotCheckedOut),
		errors.Is(err, service.ErrNoOpenCheckout):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "INVALID_STATE",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrDuplicateISBN):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "CONFLICT",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:  "error",
			Code:    "UNAUTHORIZED",
			Message: err.Error(),
		})
	default:
		h.logger.Error("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL",
			Message: "Internal server error",
		})
	}
}
