package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"budgetwise/internal/handlers"
	"budgetwise/internal/logger"
	"budgetwise/internal/middleware"
	"budgetwise/internal/models"
	"budgetwise/internal/services"
	"budgetwise/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite. Reports are computed as if today were now.
func setupApp(t *testing.T, now time.Time) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	auditService := services.NewAuditService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, "PLN")
	budgetService := services.NewBudgetService(db)
	currencyService := services.NewCurrencyService(db)
	reportService := services.NewReportService(services.NewRecordStore(db), services.ReportOptions{
		TrailingWindow:    6,
		MaxForecastMonths: 120,
		Now:               func() time.Time { return now },
	})

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	handlers.RegisterRoutes(router.Group("/api/v1"), handlers.Handlers{
		Category:    handlers.NewCategoryHandler(categoryService, auditService),
		Transaction: handlers.NewTransactionHandler(transactionService, auditService),
		Budget:      handlers.NewBudgetHandler(budgetService, auditService),
		Report:      handlers.NewReportHandler(reportService),
		Currency:    handlers.NewCurrencyHandler(currencyService, auditService),
		Audit:       handlers.NewAuditHandler(auditService),
	})

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// mustRequest makes a request and fails the test unless the status matches.
func (app *testApp) mustRequest(t *testing.T, method, path, body string, want int) map[string]interface{} {
	t.Helper()
	rec := app.request(method, path, body)
	if rec.Code != want {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, want, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createCategory creates a category and returns its id.
func (app *testApp) createCategory(t *testing.T, userID, name string) string {
	t.Helper()
	result := app.mustRequest(t, "POST", "/api/v1/users/"+userID+"/categories",
		fmt.Sprintf(`{"name":%q}`, name), http.StatusCreated)
	return result["category"].(map[string]interface{})["id"].(string)
}

// addExpense records an expense and returns the transaction id.
func (app *testApp) addExpense(t *testing.T, userID, categoryID, date, amount string) string {
	t.Helper()
	result := app.mustRequest(t, "POST", "/api/v1/users/"+userID+"/transactions",
		fmt.Sprintf(`{"kind":"expense","amount":%q,"date":%q,"category_id":%q}`, amount, date, categoryID),
		http.StatusCreated)
	return result["transaction"].(map[string]interface{})["id"].(string)
}

// addIncome records an income and returns the transaction id.
func (app *testApp) addIncome(t *testing.T, userID, name, date, amount string) string {
	t.Helper()
	result := app.mustRequest(t, "POST", "/api/v1/users/"+userID+"/transactions",
		fmt.Sprintf(`{"kind":"income","name":%q,"amount":%q,"date":%q}`, name, amount, date),
		http.StatusCreated)
	return result["transaction"].(map[string]interface{})["id"].(string)
}

// setBudget stores a category budget for period.
func (app *testApp) setBudget(t *testing.T, userID, period, categoryID, amount string) {
	t.Helper()
	app.mustRequest(t, "PUT", "/api/v1/users/"+userID+"/budgets/"+period,
		fmt.Sprintf(`{"category_id":%q,"amount":%q}`, categoryID, amount), http.StatusOK)
}
