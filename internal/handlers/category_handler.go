package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/pagination"
	"budgetwise/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CategoryRequest is the payload for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateCategory handles the creation of a new category.
// @Summary     Create a category
// @Description Create a new spending category. Names are unique per user.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       userID  path string          true "User ID"
// @Param       request body CategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(userID, c.ClientIP(),
		services.CategoryEvent(services.ActionCreateCategory, category.ID, category.Name))

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetUserCategories lists the user's categories.
// @Summary     Get categories
// @Description Get a paginated list of categories. A new user gets the default set.
// @Tags        categories
// @Produce     json
// @Param       userID    path  string true  "User ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       sort      query string false "Sort key: name or created, prefixed with - for descending (default name)"
// @Success     200 {object} pagination.PageResponse[models.Category] "Paginated categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/categories [get]
func (h *CategoryHandler) GetUserCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.categoryService.GetUserCategories(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategoryByID handles the retrieval of a specific category.
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Param       userID path string true "User ID"
// @Param       id     path string true "Category ID"
// @Success     200 {object} models.Category "Category details"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// RenameCategory handles renaming a category.
// @Summary     Rename category
// @Description Rename a category. Budgets recorded under the old name keep it.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       userID  path string          true "User ID"
// @Param       id      path string          true "Category ID"
// @Param       request body CategoryRequest true "New name"
// @Success     200 {object} models.Category "Renamed category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/categories/{id} [put]
func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.RenameCategory(userID, categoryID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(userID, c.ClientIP(),
		services.CategoryEvent(services.ActionRenameCategory, categoryID, category.Name))

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles deleting a category by ID.
// @Summary     Delete category
// @Tags        categories
// @Produce     json
// @Param       userID path string true "User ID"
// @Param       id     path string true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(userID, c.ClientIP(),
		services.CategoryEvent(services.ActionDeleteCategory, categoryID, ""))

	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}

// DeleteCategoryByName handles deleting a category by its name.
// @Summary     Delete category by name
// @Tags        categories
// @Produce     json
// @Param       userID path  string true "User ID"
// @Param       name   query string true "Category name"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     400 {object} ErrorResponse "Missing name"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/categories [delete]
func (h *CategoryHandler) DeleteCategoryByName(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	name := c.Query("name")
	if name == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required"))
		return
	}

	if err := h.categoryService.DeleteCategoryByName(userID, name); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(userID, c.ClientIP(),
		services.CategoryEvent(services.ActionDeleteCategory, "", name))

	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}
