package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/models"
	"budgetwise/internal/pagination"
	"budgetwise/internal/reporting"
	"budgetwise/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
type CreateTransactionRequest struct {
	Kind       models.TransactionKind `json:"kind" binding:"required,transaction_kind"`
	Name       string                 `json:"name" binding:"max=100"`
	Amount     decimal.Decimal        `json:"amount" swaggertype:"string" example:"12.50"`
	Currency   string                 `json:"currency" binding:"omitempty,iso4217"`
	Date       string                 `json:"date" binding:"required,iso_date" example:"2025-04-18"`
	CategoryID *string                `json:"category_id"`
	Note       string                 `json:"note" binding:"max=500"`
}

// UpdateTransactionRequest represents the request payload for updating a
// transaction. Omitted fields keep their value.
type UpdateTransactionRequest struct {
	Name       *string          `json:"name" binding:"omitempty,max=100"`
	Amount     *decimal.Decimal `json:"amount" swaggertype:"string"`
	Currency   *string          `json:"currency" binding:"omitempty,iso4217"`
	Date       *string          `json:"date" binding:"omitempty,iso_date"`
	CategoryID *string          `json:"category_id"`
	Note       *string          `json:"note" binding:"omitempty,max=500"`
}

func transactionView(tx *models.Transaction) reporting.Transaction {
	return tx.ToReporting()
}

// CreateTransaction handles the creation of a new transaction.
// @Summary     Create a transaction
// @Description Record an income or an expense. Expenses need a category.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       userID  path string                   true "User ID"
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} reporting.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, services.TransactionInput{
		Kind:       req.Kind,
		Name:       req.Name,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Date:       req.Date,
		CategoryID: req.CategoryID,
		Note:       req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(userID, c.ClientIP(),
		services.TransactionEvent(services.ActionCreateTransaction, transaction))

	c.JSON(http.StatusCreated, gin.H{"transaction": transactionView(transaction)})
}

// GetUserTransactions lists the user's transactions.
// @Summary     Get transactions
// @Description With year and month, returns every transaction of that month sorted by date.
// @Description Otherwise returns a paginated list, newest first, with optional filters.
// @Tags        transactions
// @Produce     json
// @Param       userID      path  string true  "User ID"
// @Param       year        query int    false "Year of the month to list"
// @Param       month       query int    false "Month to list (1-12)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       sort        query string false "Sort key: date, amount or kind, prefixed with - for descending (default -date)"
// @Param       from_date   query string false "Filter by start date (YYYY-MM-DD)"
// @Param       to_date     query string false "Filter by end date (YYYY-MM-DD)"
// @Param       kind        query string false "Filter by kind (income, expense)"
// @Param       category_id query string false "Filter by category ID"
// @Success     200 {object} pagination.PageResponse[reporting.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month := c.Query("year"), c.Query("month")
	if year != "" || month != "" {
		period, err := parseYearMonth(year, month)
		if err != nil {
			respondWithError(c, err)
			return
		}
		txs, err := h.transactionService.GetMonthTransactions(userID, period)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"period": period, "transactions": txs})
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, transactionView))
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, err := reporting.ParseDate(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidDate, "invalid from_date, use YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := reporting.ParseDate(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidDate, "invalid to_date, use YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	if v := c.Query("kind"); v != "" {
		kind := models.TransactionKind(v)
		switch kind {
		case models.TransactionKindIncome, models.TransactionKindExpense:
			filter.Kind = &kind
		default:
			return filter, apperrors.ErrInvalidTransactionKind
		}
	}

	if v := c.Query("category_id"); v != "" {
		filter.CategoryID = &v
	}

	return filter, nil
}

// GetTotals reports recent spending and income.
// @Summary     Get transaction totals
// @Description Expenses over the last 30 days and incomes of the current month.
// @Tags        transactions
// @Produce     json
// @Param       userID path string true "User ID"
// @Success     200 {object} services.TransactionTotals "Totals"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/transactions/totals [get]
func (h *TransactionHandler) GetTotals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.transactionService.GetTotals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

// GetTransactionByID handles the retrieval of a specific transaction.
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Param       userID path string true "User ID"
// @Param       id     path string true "Transaction ID"
// @Success     200 {object} reporting.Transaction "Transaction details"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transactionView(transaction)})
}

// UpdateTransaction handles updating an existing transaction.
// @Summary     Update transaction
// @Description Partially update a transaction. The date is validated again when present.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       userID  path string                   true "User ID"
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} reporting.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, txID, services.TransactionUpdate{
		Name:       req.Name,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Date:       req.Date,
		CategoryID: req.CategoryID,
		Note:       req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(userID, c.ClientIP(),
		services.TransactionEvent(services.ActionUpdateTransaction, transaction))

	c.JSON(http.StatusOK, gin.H{"transaction": transactionView(transaction)})
}

// DeleteTransaction handles the deletion of a transaction.
// @Summary     Delete transaction
// @Tags        transactions
// @Produce     json
// @Param       userID path string true "User ID"
// @Param       id     path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(userID, c.ClientIP(), services.TransactionDeletedEvent(transactionID))

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}
