// Package pagination pages and sorts the transaction, category and audit
// listings.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"
)

// ErrUnknownSort is returned when a sort key is not offered by a listing.
var ErrUnknownSort = errors.New("unknown sort key")

// DefaultPageSize is used when a request does not name a page size.
const DefaultPageSize = 20

// Sorting lists the sort keys a listing accepts. A key prefixed with "-"
// sorts descending. Rows that tie are ordered by id in the same direction.
type Sorting struct {
	Columns map[string]string
	Default string
}

// TransactionSorting orders transactions newest first unless asked otherwise.
var TransactionSorting = Sorting{
	Columns: map[string]string{
		"date":   "date",
		"amount": "amount",
		"kind":   "kind",
	},
	Default: "-date",
}

// CategorySorting orders categories alphabetically unless asked otherwise.
var CategorySorting = Sorting{
	Columns: map[string]string{
		"name":    "name",
		"created": "created_at",
	},
	Default: "name",
}

// AuditSorting orders audit entries newest first unless asked otherwise.
var AuditSorting = Sorting{
	Columns: map[string]string{
		"created": "created_at",
		"period":  "period",
	},
	Default: "-created",
}

// PageRequest holds pagination and sort parameters parsed from query strings.
type PageRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Sort     string `form:"sort" binding:"omitempty,max=32"`
}

// Defaults fills in the page, page size and the listing's default sort.
func (p *PageRequest) Defaults(s Sorting) {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	p.Sort = strings.TrimSpace(p.Sort)
	if p.Sort == "" {
		p.Sort = s.Default
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// OrderBy translates the sort key into an ORDER BY clause.
func (p *PageRequest) OrderBy(s Sorting) (string, error) {
	key := p.Sort
	if key == "" {
		key = s.Default
	}
	dir := "ASC"
	if strings.HasPrefix(key, "-") {
		dir = "DESC"
		key = key[1:]
	}
	column, ok := s.Columns[key]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownSort, p.Sort)
	}
	return fmt.Sprintf("%s %s, id %s", column, dir, dir), nil
}

// PageResponse wraps a page of items with metadata.
type PageResponse[T any] struct {
	Data       []T    `json:"data"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	Sort       string `json:"sort,omitempty"`
	TotalItems int64  `json:"total_items"`
	TotalPages int    `json:"total_pages"`
}

// NewPageResponse creates a PageResponse for the request that produced data.
func NewPageResponse[T any](data []T, req PageRequest, totalItems int64) PageResponse[T] {
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(req.PageSize)))
	}
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		Sort:       req.Sort,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Map converts every item of a page, keeping its metadata.
func Map[T, U any](page PageResponse[T], fn func(*T) U) PageResponse[U] {
	out := make([]U, 0, len(page.Data))
	for i := range page.Data {
		out = append(out, fn(&page.Data[i]))
	}
	return PageResponse[U]{
		Data:       out,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Sort:       page.Sort,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}

// Paginate returns a GORM scope that sorts by the request's key and applies
// OFFSET and LIMIT. The key must already have been checked with OrderBy.
func Paginate(req PageRequest, s Sorting) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if order, err := req.OrderBy(s); err == nil {
			db = db.Order(order)
		}
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}
