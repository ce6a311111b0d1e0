package services

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
	"budgetwise/internal/models"
	"budgetwise/internal/pagination"
	"budgetwise/internal/reporting"
)

// Audit actions.
const (
	ActionCreateCategory    = "CREATE_CATEGORY"
	ActionRenameCategory    = "RENAME_CATEGORY"
	ActionDeleteCategory    = "DELETE_CATEGORY"
	ActionCreateTransaction = "CREATE_TRANSACTION"
	ActionUpdateTransaction = "UPDATE_TRANSACTION"
	ActionDeleteTransaction = "DELETE_TRANSACTION"
	ActionSetBudget         = "SET_BUDGET"
	ActionDeleteBudget      = "DELETE_BUDGET"
	ActionAddRate           = "ADD_RATE"
)

// AuditEvent describes one mutation of a user's budgeting data. Period is
// the "YYYY-M" budget key the mutation affects, Category the category name
// it touched.
type AuditEvent struct {
	Action       string
	ResourceType string
	ResourceID   string
	Period       string
	Category     string
	Amount       decimal.NullDecimal
	Changes      map[string]any
}

// AuditFilter narrows an audit listing.
type AuditFilter struct {
	Period   *reporting.Period
	Category string
	Action   string
}

// BudgetSetEvent records a budget being set or replaced.
func BudgetSetEvent(b *models.Budget) AuditEvent {
	return AuditEvent{
		Action:       ActionSetBudget,
		ResourceType: "budget",
		ResourceID:   b.ID,
		Period:       b.Period,
		Category:     b.CategoryName,
		Amount:       decimal.NewNullDecimal(b.Amount),
	}
}

// BudgetDeletedEvent records every budget of period being removed.
func BudgetDeletedEvent(period reporting.Period) AuditEvent {
	return AuditEvent{
		Action:       ActionDeleteBudget,
		ResourceType: "budget",
		ResourceID:   period.String(),
		Period:       period.String(),
	}
}

// TransactionEvent records a created or updated transaction under the
// period its date falls in.
func TransactionEvent(action string, tx *models.Transaction) AuditEvent {
	changes := map[string]any{
		"kind":     tx.Kind,
		"currency": tx.Currency,
		"date":     tx.Date.Format(reporting.DateLayout),
	}
	if tx.CategoryID != nil {
		changes["category_id"] = *tx.CategoryID
	}
	return AuditEvent{
		Action:       action,
		ResourceType: "transaction",
		ResourceID:   tx.ID,
		Period:       reporting.PeriodOf(tx.Date).String(),
		Amount:       decimal.NewNullDecimal(tx.Amount),
		Changes:      changes,
	}
}

// TransactionDeletedEvent records a transaction being removed.
func TransactionDeletedEvent(transactionID string) AuditEvent {
	return AuditEvent{
		Action:       ActionDeleteTransaction,
		ResourceType: "transaction",
		ResourceID:   transactionID,
	}
}

// CategoryEvent records a category mutation under the category's name.
func CategoryEvent(action, categoryID, name string) AuditEvent {
	return AuditEvent{
		Action:       action,
		ResourceType: "category",
		ResourceID:   categoryID,
		Category:     name,
	}
}

// RateAddedEvent records an exchange rate being stored.
func RateAddedEvent(from, to string, rate decimal.Decimal) AuditEvent {
	return AuditEvent{
		Action:       ActionAddRate,
		ResourceType: "exchange_rate",
		ResourceID:   from + "/" + to,
		Amount:       decimal.NewNullDecimal(rate),
	}
}

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Record stores an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Record(userID, ipAddress string, event AuditEvent) {
	log := logger.Named("audit")

	var changesJSON string
	if event.Changes != nil {
		data, err := json.Marshal(event.Changes)
		if err != nil {
			log.Errorw("failed to marshal audit log changes", "error", err, "action", event.Action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       event.Action,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		Period:       event.Period,
		Category:     event.Category,
		Amount:       event.Amount,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		log.Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", event.Action,
			"resource_type", event.ResourceType,
			"resource_id", event.ResourceID,
			"period", event.Period,
		)
	}
}

// GetUserAuditLog lists a user's audit entries, newest first unless
// page.Sort says otherwise.
func (s *auditService) GetUserAuditLog(userID string, page pagination.PageRequest, filter AuditFilter) (*pagination.PageResponse[models.AuditLog], error) {
	page.Defaults(pagination.AuditSorting)
	if _, err := page.OrderBy(pagination.AuditSorting); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	base := s.db.Model(&models.AuditLog{}).Where("user_id = ?", userID)
	if filter.Period != nil {
		base = base.Where("period = ?", filter.Period.String())
	}
	if filter.Category != "" {
		base = base.Where("category = ?", filter.Category)
	}
	if filter.Action != "" {
		base = base.Where("action = ?", filter.Action)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.AuditLog
	if err := base.Scopes(pagination.Paginate(page, pagination.AuditSorting)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page, totalItems)
	return &result, nil
}
