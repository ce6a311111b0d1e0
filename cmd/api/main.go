package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"budgetwise/internal/config"
	"budgetwise/internal/database"
	_ "budgetwise/internal/docs" // Import swagger docs
	"budgetwise/internal/handlers"
	"budgetwise/internal/logger"
	"budgetwise/internal/middleware"
	"budgetwise/internal/services"
	"budgetwise/internal/validator"
)

// @title           Budgetwise API
// @version         1.0
// @description     Personal finance tracker: transactions, category budgets, monthly budget reports and savings forecasts.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, appConfig.DefaultCurrency)
	budgetService := services.NewBudgetService(db)
	currencyService := services.NewCurrencyService(db)
	reportService := services.NewReportService(services.NewRecordStore(db), services.ReportOptions{
		TrailingWindow:    appConfig.ForecastWindow,
		MaxForecastMonths: appConfig.ForecastMaxMonths,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(router.Group("/api/v1"), handlers.Handlers{
		Category:    handlers.NewCategoryHandler(categoryService, auditService),
		Transaction: handlers.NewTransactionHandler(transactionService, auditService),
		Budget:      handlers.NewBudgetHandler(budgetService, auditService),
		Report:      handlers.NewReportHandler(reportService),
		Currency:    handlers.NewCurrencyHandler(currencyService, auditService),
		Audit:       handlers.NewAuditHandler(auditService),
	})

	log.Infow("starting budgetwise server",
		"port", appConfig.Port,
		"db_driver", dbConfig.Driver,
		"default_currency", appConfig.DefaultCurrency,
	)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
