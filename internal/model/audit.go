package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateExpense  = "CREATE_EXPENSE"
	ActionUpdateExpense  = "UPDATE_EXPENSE"
	ActionDeleteExpense  = "DELETE_EXPENSE"
	ActionSubmitExpense  = "SUBMIT_EXPENSE"
	ActionApproveExpense = "APPROVE_EXPENSE"
	ActionRejectExpense  = "REJECT_EXPENSE"
	ActionUploadReceipt  = "UPLOAD_RECEIPT"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
