package client

import (
	"context"

	"expensems/pkg/api"
)

// ListState is the lifecycle of a paged listing.
type ListState string

const (
	ListIdle    ListState = "IDLE"
	ListLoading ListState = "LOADING"
	ListLoaded  ListState = "LOADED"
	ListFailed  ListState = "FAILED"
)

// ListQuery captures the page, sort, and filter inputs of a listing.
type ListQuery struct {
	Page      int
	Size      int
	SortField string
	SortDesc  bool
	Filters   map[string]string
}

// Sort renders the query's sort as "field,dir", or "" when unsorted.
func (q ListQuery) Sort() string {
	if q.SortField == "" {
		return ""
	}
	dir := "asc"
	if q.SortDesc {
		dir = "desc"
	}
	return q.SortField + "," + dir
}

// ListFetcher loads one page of rows for a query.
type ListFetcher[T any] func(ctx context.Context, q ListQuery) (api.Page[T], error)

// ListController drives a paged table: it tracks the current query and
// the last loaded page, and keeps stale rows visible when a reload
// fails. It is not safe for concurrent use; callers issue one Load at
// a time. Overlapping Loads are not fenced, so a slow earlier response
// can overwrite a newer one if the caller races them.
type ListController[T any] struct {
	fetch ListFetcher[T]

	state ListState
	query ListQuery
	rows  []T
	total int64
	pages int
	err   error
}

// NewListController builds a controller in the idle state with the
// given defaults. Sort defaults to descending when a field is set.
func NewListController[T any](fetch ListFetcher[T], defaultSortField string, defaultSize int) *ListController[T] {
	if defaultSize <= 0 {
		defaultSize = 10
	}
	return &ListController[T]{
		fetch: fetch,
		state: ListIdle,
		query: ListQuery{
			Size:      defaultSize,
			SortField: defaultSortField,
			SortDesc:  defaultSortField != "",
			Filters:   map[string]string{},
		},
	}
}

func (l *ListController[T]) State() ListState { return l.state }
func (l *ListController[T]) Query() ListQuery { return l.query }
func (l *ListController[T]) Rows() []T        { return l.rows }
func (l *ListController[T]) Total() int64     { return l.total }
func (l *ListController[T]) TotalPages() int  { return l.pages }
func (l *ListController[T]) Err() error       { return l.err }

// SetFilter sets or clears (empty value) a filter and resets to the
// first page.
func (l *ListController[T]) SetFilter(key, value string) {
	if value == "" {
		delete(l.query.Filters, key)
	} else {
		l.query.Filters[key] = value
	}
	l.query.Page = 0
}

// ToggleSort sorts by field. Picking a new field starts descending and
// resets to the first page; picking the current field flips direction
// in place.
func (l *ListController[T]) ToggleSort(field string) {
	if l.query.SortField == field {
		l.query.SortDesc = !l.query.SortDesc
		return
	}
	l.query.SortField = field
	l.query.SortDesc = true
	l.query.Page = 0
}

// SetSort replaces field and direction outright. Unlike ToggleSort it
// never flips based on the current state; switching fields resets to the
// first page.
func (l *ListController[T]) SetSort(field string, desc bool) {
	if l.query.SortField != field {
		l.query.Page = 0
	}
	l.query.SortField = field
	l.query.SortDesc = desc
}

// SetPage moves to a page. Out-of-range values are clamped to zero.
func (l *ListController[T]) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	l.query.Page = page
}

// SetPageSize changes the page size and resets to the first page.
func (l *ListController[T]) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	l.query.Size = size
	l.query.Page = 0
}

// Load fetches the current query. On failure the previous rows stay in
// place so a transient error does not blank the table.
func (l *ListController[T]) Load(ctx context.Context) error {
	l.state = ListLoading
	l.err = nil

	page, err := l.fetch(ctx, l.query)
	if err != nil {
		l.state = ListFailed
		l.err = err
		return err
	}

	l.state = ListLoaded
	l.rows = page.Content
	l.total = page.TotalElements
	l.pages = page.TotalPages
	return nil
}

// ExpenseList builds a controller over the client's expense listing,
// translating controller filters (status, categoryId, startDate,
// endDate) into list parameters.
func (c *Client) ExpenseList() *ListController[api.Expense] {
	fetch := func(ctx context.Context, q ListQuery) (api.Page[api.Expense], error) {
		return c.ListExpenses(ctx, ExpenseListParams{
			Page:       q.Page,
			Size:       q.Size,
			Sort:       q.Sort(),
			Status:     q.Filters["status"],
			CategoryID: q.Filters["categoryId"],
			StartDate:  q.Filters["startDate"],
			EndDate:    q.Filters["endDate"],
		})
	}
	return NewListController(fetch, "expenseDate", 10)
}
