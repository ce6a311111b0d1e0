package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
	"budgetwise/internal/models"
	"budgetwise/internal/reporting"
	"budgetwise/internal/uuid"
)

// recordStore reads users' records out of the database for the reporting engine.
type recordStore struct {
	db *gorm.DB
}

// NewRecordStore creates a RecordStore backed by db.
func NewRecordStore(db *gorm.DB) RecordStore {
	return &recordStore{db: db}
}

// ListTransactions returns every income and expense of the user, oldest first.
func (s *recordStore) ListTransactions(userID string) ([]reporting.Transaction, error) {
	return listTransactions(s.db, userID)
}

// ListBudgets returns the user's budget book. Rows whose period key does not
// parse are skipped and logged.
func (s *recordStore) ListBudgets(userID string) (reporting.BudgetBook, error) {
	return listBudgets(s.db, userID)
}

// ResolveCategoryName maps a category id to the name it currently has.
func (s *recordStore) ResolveCategoryName(userID, categoryID string) (string, bool, error) {
	if !uuid.IsValid(categoryID) {
		return "", false, nil
	}
	var category models.Category
	err := s.db.Select("name").Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category.Name, true, nil
}

// Snapshot reads transactions, budgets and categories inside a single
// database transaction so the engine sees one consistent state.
func (s *recordStore) Snapshot(userID string) (*reporting.Snapshot, error) {
	snapshot := &reporting.Snapshot{UserID: userID}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if snapshot.Transactions, err = listTransactions(tx, userID); err != nil {
			return err
		}
		if snapshot.Budgets, err = listBudgets(tx, userID); err != nil {
			return err
		}
		snapshot.Categories, err = listCategoryNames(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func listTransactions(db *gorm.DB, userID string) ([]reporting.Transaction, error) {
	var rows []models.Transaction
	if err := db.Where("user_id = ?", userID).Order("date ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	txs := make([]reporting.Transaction, 0, len(rows))
	for i := range rows {
		txs = append(txs, rows[i].ToReporting())
	}
	return txs, nil
}

func listBudgets(db *gorm.DB, userID string) (reporting.BudgetBook, error) {
	var rows []models.Budget
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	book := make(reporting.BudgetBook)
	for _, row := range rows {
		period, err := reporting.ParsePeriod(row.Period)
		if err != nil {
			logger.Named("records").Warnw("skipping budget with malformed period",
				"user_id", userID, "budget_id", row.ID, "period", row.Period)
			continue
		}
		if book[period] == nil {
			book[period] = make(reporting.CategoryBudgets)
		}
		book[period][row.CategoryName] = row.Amount
	}
	return book, nil
}

func listCategoryNames(db *gorm.DB, userID string) (reporting.CategoryNames, error) {
	var rows []models.Category
	if err := db.Select("id", "name").Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	names := make(reporting.CategoryNames, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
