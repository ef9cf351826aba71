package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage = 0
	DefaultSize = 10
	MaxSize     = 100
	MinSize     = 1
)

// Params holds validated pagination and sorting parameters.
// Page is 0-based, matching the wire format.
type Params struct {
	Page    int
	Size    int
	Offset  int
	SortBy  string // column name, already mapped through the whitelist
	SortDir string // "asc" or "desc"
}

// Parse extracts page/size/sort from query parameters.
//
// sort uses the "field,dir" form (e.g. "expenseDate,desc"). sortable maps
// the allowed wire field names to column names; unknown fields fall back to
// defaultField. Direction defaults to descending.
func Parse(c *gin.Context, sortable map[string]string, defaultField string) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultSize)))

	if page < 0 {
		page = DefaultPage
	}
	if size < MinSize {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	sortBy := sortable[defaultField]
	sortDir := "desc"
	if raw := c.Query("sort"); raw != "" {
		field := raw
		if i := strings.Index(raw, ","); i >= 0 {
			field = raw[:i]
			if dir := strings.ToLower(raw[i+1:]); dir == "asc" || dir == "desc" {
				sortDir = dir
			}
		}
		if col, ok := sortable[field]; ok {
			sortBy = col
		}
	}

	return Params{
		Page:    page,
		Size:    size,
		Offset:  page * size,
		SortBy:  sortBy,
		SortDir: sortDir,
	}
}

// Order renders the ORDER BY clause for these Params.
func (p Params) Order() string {
	return p.SortBy + " " + p.SortDir
}
