package api

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense lifecycle statuses. Transitions are server-authoritative:
// DRAFT -> SUBMITTED -> APPROVED | REJECTED.
const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
)

// Expense is the wire representation of an expense record.
// Server-assigned fields (ID, Status, timestamps, reviewer) are read-only
// from the client's perspective.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Category    Category        `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate string          `json:"expenseDate"` // YYYY-MM-DD
	Description string          `json:"description"`
	Status      string          `json:"status"`
	SubmittedAt string          `json:"submittedAt,omitempty"`
	ReviewedAt  string          `json:"reviewedAt,omitempty"`
	ReviewedBy  *UserProfile    `json:"reviewedBy,omitempty"`
	ReviewNotes string          `json:"reviewNotes,omitempty"`
	Receipt     *Receipt        `json:"receipt,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// Category classifies expenses. The set is seeded server-side.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// Receipt is the metadata of a file attached to an expense.
type Receipt struct {
	ID         uuid.UUID `json:"id"`
	ExpenseID  uuid.UUID `json:"expenseId"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	UploadedAt string    `json:"uploadedAt"`
}

// ExpenseRequest is the create/update payload.
type ExpenseRequest struct {
	CategoryID  uuid.UUID       `json:"categoryId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate string          `json:"expenseDate" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

// ReviewRequest carries optional notes for approve/reject actions.
type ReviewRequest struct {
	ReviewNotes string `json:"reviewNotes"`
}
