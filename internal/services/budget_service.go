package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/models"
	"budgetwise/internal/reporting"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db    *gorm.DB
	store RecordStore
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db, store: NewRecordStore(db)}
}

// SetBudget stores the amount planned for a category in a period. The
// category id is resolved to its current name, which becomes the budget key.
// Setting the same category and period again replaces the amount.
func (s *budgetService) SetBudget(userID string, period reporting.Period, categoryID string, amount decimal.Decimal) (*models.Budget, error) {
	if period.IsZero() {
		return nil, apperrors.ErrInvalidPeriod
	}
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must not be negative")
	}

	name, ok, err := s.store.ResolveCategoryName(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	budget := &models.Budget{
		UserID:       userID,
		Period:       period.String(),
		CategoryName: name,
		Amount:       amount,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "period"}, {Name: "category_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(budget).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// On conflict the generated id is not the stored one; read the row back.
	var stored models.Budget
	if err := s.db.Where("user_id = ? AND period = ? AND category_name = ?", userID, budget.Period, name).
		First(&stored).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stored, nil
}

// GetBudgetBook returns every budget of the user keyed by period and category name.
func (s *budgetService) GetBudgetBook(userID string) (reporting.BudgetBook, error) {
	return s.store.ListBudgets(userID)
}

// GetPeriodBudgets returns the budget rows of one period ordered by category name.
func (s *budgetService) GetPeriodBudgets(userID string, period reporting.Period) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND period = ?", userID, period.String()).
		Order("category_name ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return budgets, nil
}

// DeleteBudget removes every category budget of a period. The rows are
// removed for good so the period can be set again.
func (s *budgetService) DeleteBudget(userID string, period reporting.Period) error {
	result := s.db.Unscoped().Where("user_id = ? AND period = ?", userID, period.String()).Delete(&models.Budget{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}
