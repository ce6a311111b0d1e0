package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/pagination"
	"budgetwise/internal/reporting"
	"budgetwise/internal/services"
)

// AuditHandler serves a user's audit trail.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// GetAuditLog lists the recorded mutations of a user's data.
// @Summary     Get audit log
// @Description Lists budget, transaction, category and rate mutations, newest first.
// @Tags        audit
// @Produce     json
// @Param       userID    path  string true  "User ID"
// @Param       period    query string false "Only mutations affecting this period (YYYY-M)"
// @Param       category  query string false "Only mutations touching this category name"
// @Param       action    query string false "Only this action, e.g. SET_BUDGET"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       sort      query string false "Sort key: created or period, prefixed with - for descending (default -created)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Audit entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/audit [get]
func (h *AuditHandler) GetAuditLog(c *gin.Context) {
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

	filter := services.AuditFilter{
		Category: c.Query("category"),
		Action:   c.Query("action"),
	}
	if raw := c.Query("period"); raw != "" {
		period, err := reporting.ParsePeriod(raw)
		if err != nil {
			respondWithError(c, apperrors.ErrInvalidPeriod)
			return
		}
		filter.Period = &period
	}

	result, err := h.auditService.GetUserAuditLog(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
