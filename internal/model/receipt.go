package model

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is the metadata of a file attached to an expense. At most one
// receipt per expense; re-uploading replaces it. The blob itself lives on
// disk under the configured storage dir, keyed by FilePath.
type Receipt struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ExpenseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"expense_id"`
	FileName  string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath  string    `gorm:"type:varchar(500);not null" json:"file_path"`
	FileType  string    `gorm:"type:varchar(50);not null" json:"file_type"`
	FileSize  int64     `gorm:"not null" json:"file_size"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
