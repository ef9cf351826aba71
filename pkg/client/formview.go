package client

import (
	"context"
	"time"

	"expensems/pkg/api"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FormState is the lifecycle of an expense add/edit form.
type FormState string

const (
	FormLoading    FormState = "LOADING"
	FormEditing    FormState = "EDITING"
	FormSubmitting FormState = "SUBMITTING"
	FormDone       FormState = "DONE"
)

const maxDescriptionLen = 1000

// ExpenseDraft is the editable field set of the form. Amount and date
// are strings so the form can hold whatever the user typed, valid or
// not.
type ExpenseDraft struct {
	CategoryID  string
	Amount      string
	ExpenseDate string // YYYY-MM-DD
	Description string
}

// ExpenseForm drives expense create and edit. In create mode it starts
// editable with today's date; in edit mode it starts loading until
// Load fetches the expense. A receipt staged before Submit is uploaded
// after the expense is saved; an upload failure does not undo the
// save.
type ExpenseForm struct {
	client *Client

	state FormState
	id    uuid.UUID
	edit  bool
	draft ExpenseDraft

	receiptName    string
	receiptContent []byte

	saved      *api.Expense
	loadErr    error
	submitErr  error
	receiptErr error
}

// NewExpenseForm opens the form in create mode.
func NewExpenseForm(c *Client) *ExpenseForm {
	return &ExpenseForm{
		client: c,
		state:  FormEditing,
		draft: ExpenseDraft{
			ExpenseDate: time.Now().Format("2006-01-02"),
		},
	}
}

// EditExpenseForm opens the form in edit mode for an existing expense.
// Call Load before editing.
func EditExpenseForm(c *Client, id uuid.UUID) *ExpenseForm {
	return &ExpenseForm{
		client: c,
		state:  FormLoading,
		id:     id,
		edit:   true,
	}
}

func (f *ExpenseForm) State() FormState    { return f.state }
func (f *ExpenseForm) Draft() ExpenseDraft { return f.draft }
func (f *ExpenseForm) Saved() *api.Expense { return f.saved }
func (f *ExpenseForm) LoadErr() error      { return f.loadErr }
func (f *ExpenseForm) SubmitErr() error    { return f.submitErr }
func (f *ExpenseForm) ReceiptErr() error   { return f.receiptErr }

// Load populates the draft from the server in edit mode. On failure
// the form stays in the loading state so the caller can retry.
func (f *ExpenseForm) Load(ctx context.Context) error {
	if !f.edit {
		return nil
	}
	expense, err := f.client.GetExpense(ctx, f.id)
	if err != nil {
		f.loadErr = err
		return err
	}
	f.draft = ExpenseDraft{
		CategoryID:  expense.Category.ID.String(),
		Amount:      expense.Amount.String(),
		ExpenseDate: expense.ExpenseDate,
		Description: expense.Description,
	}
	f.state = FormEditing
	f.loadErr = nil
	return nil
}

// SetDraft replaces the draft fields.
func (f *ExpenseForm) SetDraft(d ExpenseDraft) {
	f.draft = d
}

// StageReceipt holds a receipt file to upload once the expense is
// saved. Staging an empty name clears it.
func (f *ExpenseForm) StageReceipt(fileName string, content []byte) {
	if fileName == "" {
		f.receiptName = ""
		f.receiptContent = nil
		return
	}
	f.receiptName = fileName
	f.receiptContent = content
}

// startOfToday is local midnight of the current calendar day. Dates are
// compared as calendar days in the user's zone, so "today" is never
// rejected as future regardless of the offset from UTC.
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

// Validate checks the draft locally and returns a ValidationError with
// per-field messages, or nil when the draft is well formed.
func (f *ExpenseForm) Validate() error {
	fields := map[string]string{}

	if f.draft.CategoryID == "" {
		fields["categoryId"] = "Category is required"
	} else if _, err := uuid.Parse(f.draft.CategoryID); err != nil {
		fields["categoryId"] = "Category is required"
	}

	amount, err := decimal.NewFromString(f.draft.Amount)
	if f.draft.Amount == "" || err != nil || !amount.IsPositive() {
		fields["amount"] = "Amount must be a positive number"
	}

	if f.draft.ExpenseDate == "" {
		fields["expenseDate"] = "Expense date is required"
	} else if date, err := time.ParseInLocation("2006-01-02", f.draft.ExpenseDate, time.Local); err != nil {
		fields["expenseDate"] = "Expense date is required"
	} else if date.After(startOfToday()) {
		fields["expenseDate"] = "Expense date cannot be in the future"
	}

	if f.draft.Description == "" {
		fields["description"] = "Description is required"
	} else if len(f.draft.Description) > maxDescriptionLen {
		fields["description"] = "Description must be at most 1000 characters"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Submit validates locally, then saves the expense (create or update)
// and uploads the staged receipt if any. A validation failure makes no
// network call. A receipt upload failure is recorded in ReceiptErr and
// does not undo the saved expense, which stays reachable via Saved.
func (f *ExpenseForm) Submit(ctx context.Context) error {
	if f.state != FormEditing {
		return f.submitErr
	}
	if err := f.Validate(); err != nil {
		f.submitErr = err
		return err
	}

	f.state = FormSubmitting
	f.submitErr = nil
	f.receiptErr = nil

	categoryID, _ := uuid.Parse(f.draft.CategoryID)
	amount, _ := decimal.NewFromString(f.draft.Amount)
	req := api.ExpenseRequest{
		CategoryID:  categoryID,
		Amount:      amount,
		ExpenseDate: f.draft.ExpenseDate,
		Description: f.draft.Description,
	}

	var (
		saved *api.Expense
		err   error
	)
	if f.edit {
		saved, err = f.client.UpdateExpense(ctx, f.id, req)
	} else {
		saved, err = f.client.CreateExpense(ctx, req)
	}
	if err != nil {
		f.state = FormEditing
		f.submitErr = err
		return err
	}
	f.saved = saved

	if f.receiptName != "" {
		receipt, upErr := f.client.UploadReceipt(ctx, saved.ID, f.receiptName, f.receiptContent)
		if upErr != nil {
			f.receiptErr = upErr
		} else {
			f.saved.Receipt = receipt
		}
	}

	f.state = FormDone
	return nil
}
