package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"expensems/pkg/api"

	"github.com/google/uuid"
)

// ExpenseListParams select and order a page of expenses. The zero value
// asks for the first page with server defaults. Filters are passed through
// to the backend unmodified; filtering happens server-side.
type ExpenseListParams struct {
	Page       int
	Size       int
	Sort       string // "field,dir", e.g. "expenseDate,desc"
	Status     string
	CategoryID string
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
}

func (p ExpenseListParams) values() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.CategoryID != "" {
		q.Set("categoryId", p.CategoryID)
	}
	if p.StartDate != "" {
		q.Set("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("endDate", p.EndDate)
	}
	return q
}

// ListExpenses fetches one page of the caller's expenses.
func (c *Client) ListExpenses(ctx context.Context, params ExpenseListParams) (api.Page[api.Expense], error) {
	var page api.Page[api.Expense]
	err := c.do(ctx, http.MethodGet, "/api/expenses", params.values(), nil, &page)
	return page, err
}

// GetExpense fetches a single expense by id.
func (c *Client) GetExpense(ctx context.Context, id uuid.UUID) (*api.Expense, error) {
	var expense api.Expense
	if err := c.do(ctx, http.MethodGet, "/api/expenses/"+id.String(), nil, nil, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// CreateExpense creates a new DRAFT expense.
func (c *Client) CreateExpense(ctx context.Context, req api.ExpenseRequest) (*api.Expense, error) {
	var expense api.Expense
	if err := c.do(ctx, http.MethodPost, "/api/expenses", nil, req, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// UpdateExpense replaces a DRAFT expense's editable fields.
func (c *Client) UpdateExpense(ctx context.Context, id uuid.UUID, req api.ExpenseRequest) (*api.Expense, error) {
	var expense api.Expense
	if err := c.do(ctx, http.MethodPut, "/api/expenses/"+id.String(), nil, req, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// DeleteExpense deletes a DRAFT expense.
func (c *Client) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/expenses/"+id.String(), nil, nil, nil)
}

// SubmitExpense moves a DRAFT expense into the approval queue.
func (c *Client) SubmitExpense(ctx context.Context, id uuid.UUID) (*api.Expense, error) {
	return c.expenseAction(ctx, id, "submit", "")
}

// PendingExpenses lists all SUBMITTED expenses (managers only).
func (c *Client) PendingExpenses(ctx context.Context) ([]api.Expense, error) {
	var expenses []api.Expense
	if err := c.do(ctx, http.MethodGet, "/api/expenses/pending", nil, nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// ApproveExpense approves a SUBMITTED expense (managers only).
func (c *Client) ApproveExpense(ctx context.Context, id uuid.UUID, notes string) (*api.Expense, error) {
	return c.expenseAction(ctx, id, "approve", notes)
}

// RejectExpense rejects a SUBMITTED expense (managers only).
func (c *Client) RejectExpense(ctx context.Context, id uuid.UUID, notes string) (*api.Expense, error) {
	return c.expenseAction(ctx, id, "reject", notes)
}

func (c *Client) expenseAction(ctx context.Context, id uuid.UUID, action, notes string) (*api.Expense, error) {
	var body interface{}
	if notes != "" {
		body = api.ReviewRequest{ReviewNotes: notes}
	}
	var expense api.Expense
	path := fmt.Sprintf("/api/expenses/%s/%s", id, action)
	if err := c.do(ctx, http.MethodPost, path, nil, body, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}
