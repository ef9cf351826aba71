package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is an expense record moving through the approval workflow:
// DRAFT -> SUBMITTED -> APPROVED | REJECTED. Only DRAFT expenses may be
// edited, deleted or submitted; only SUBMITTED expenses may be reviewed.
type Expense struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"category"`

	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	ExpenseDate time.Time       `gorm:"type:date;not null;index" json:"expense_date"`
	Description string          `gorm:"type:text" json:"description"`

	Status      string     `gorm:"type:varchar(50);not null;default:'DRAFT';index" json:"status"`
	SubmittedAt *time.Time `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	ReviewedBy  *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	Reviewer    *User      `gorm:"foreignKey:ReviewedBy" json:"-"`
	ReviewNotes string     `gorm:"type:text" json:"review_notes"`

	Receipt *Receipt `gorm:"foreignKey:ExpenseID" json:"receipt"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
