package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/models"
	"budgetwise/internal/pagination"
	"budgetwise/internal/reporting"
	"budgetwise/internal/uuid"
	"budgetwise/internal/validator"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	store           RecordStore
	defaultCurrency string
	now             func() time.Time
}

// NewTransactionService creates a new TransactionServicer. Transactions
// created without a currency are stored in defaultCurrency.
func NewTransactionService(db *gorm.DB, defaultCurrency string) TransactionServicer {
	return &transactionService{
		db:              db,
		store:           NewRecordStore(db),
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

func parseTransactionDate(s string) (time.Time, error) {
	date, err := reporting.ParseDate(s)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.ErrInvalidDate, err)
	}
	return date, nil
}

func (s *transactionService) checkCategory(userID, categoryID string) error {
	if !uuid.IsValid(categoryID) {
		return apperrors.ErrCategoryNotFound
	}
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ? AND user_id = ?", categoryID, userID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// CreateTransaction records a new income or expense.
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	if in.Kind != models.TransactionKindIncome && in.Kind != models.TransactionKindExpense {
		return nil, apperrors.ErrInvalidTransactionKind
	}
	if in.Amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}

	date, err := parseTransactionDate(in.Date)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}
	if !validator.IsCurrencyCode(currency) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency must be an ISO 4217 code")
	}

	transaction := &models.Transaction{
		UserID:   userID,
		Kind:     in.Kind,
		Name:     in.Name,
		Amount:   in.Amount,
		Currency: currency,
		Date:     date,
		Note:     in.Note,
	}

	// Only expenses are categorized.
	if in.Kind == models.TransactionKindExpense && in.CategoryID != nil && *in.CategoryID != "" {
		if err := s.checkCategory(userID, *in.CategoryID); err != nil {
			return nil, err
		}
		categoryID := *in.CategoryID
		transaction.CategoryID = &categoryID
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if !uuid.IsValid(transactionID) {
		return nil, apperrors.ErrTransactionNotFound
	}
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update. A new date is validated the
// same way as on creation.
func (s *transactionService) UpdateTransaction(userID, transactionID string, upd TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Amount != nil {
		if upd.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		updates["amount"] = *upd.Amount
	}
	if upd.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*upd.Currency))
		if !validator.IsCurrencyCode(currency) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency must be an ISO 4217 code")
		}
		updates["currency"] = currency
	}
	if upd.Date != nil {
		date, err := parseTransactionDate(*upd.Date)
		if err != nil {
			return nil, err
		}
		updates["date"] = date
	}
	if upd.CategoryID != nil {
		if transaction.Kind != models.TransactionKindExpense {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "only expenses have a category")
		}
		if err := s.checkCategory(userID, *upd.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *upd.CategoryID
	}
	if upd.Note != nil {
		updates["note"] = *upd.Note
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction soft-deletes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserTransactions retrieves a paginated, filtered list of transactions,
// newest first unless page.Sort says otherwise.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults(pagination.TransactionSorting)
	if _, err := page.OrderBy(pagination.TransactionSorting); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page, pagination.TransactionSorting)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Kind != nil {
		q = q.Where("kind = ?", *f.Kind)
	}
	if f.CategoryID != nil {
		if !uuid.IsValid(*f.CategoryID) {
			// not an id any category can have
			return q.Where("1 = 0")
		}
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

// GetMonthTransactions returns the month's transactions sorted by date, with
// expense categories resolved to names.
func (s *transactionService) GetMonthTransactions(userID string, period reporting.Period) ([]reporting.Transaction, error) {
	snapshot, err := s.store.Snapshot(userID)
	if err != nil {
		return nil, err
	}
	txs := reporting.FilterMonth(snapshot.Transactions, snapshot.Categories.Resolve, period)
	if txs == nil {
		txs = []reporting.Transaction{}
	}
	return txs, nil
}

// GetTotals sums expenses dated within the last 30 days and incomes dated in
// the current calendar month.
func (s *transactionService) GetTotals(userID string) (*TransactionTotals, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	expenses, err := s.sum(userID, models.TransactionKindExpense, today.AddDate(0, 0, -30), today)
	if err != nil {
		return nil, err
	}
	incomes, err := s.sum(userID, models.TransactionKindIncome, monthStart, monthStart.AddDate(0, 1, -1))
	if err != nil {
		return nil, err
	}

	return &TransactionTotals{ExpensesLast30Days: expenses, IncomesThisMonth: incomes}, nil
}

// sum adds the matching amounts in Go; SQLite would add a NUMERIC column as REAL.
func (s *transactionService) sum(userID string, kind models.TransactionKind, from, to time.Time) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND kind = ? AND date >= ? AND date <= ?", userID, kind, from, to).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total, nil
}
