package service

import (
	"time"

	"expensems/internal/model"
	"expensems/pkg/api"
)

const dateLayout = "2006-01-02"

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toUserProfile(u *model.User) api.UserProfile {
	return api.UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

func toCategoryResponse(c *model.Category) api.Category {
	return api.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

func toReceiptResponse(r *model.Receipt) *api.Receipt {
	if r == nil {
		return nil
	}
	return &api.Receipt{
		ID:         r.ID,
		ExpenseID:  r.ExpenseID,
		FileName:   r.FileName,
		FileType:   r.FileType,
		FileSize:   r.FileSize,
		UploadedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func toExpenseResponse(e *model.Expense) *api.Expense {
	resp := &api.Expense{
		ID:          e.ID,
		Category:    toCategoryResponse(&e.Category),
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate.Format(dateLayout),
		Description: e.Description,
		Status:      e.Status,
		SubmittedAt: formatTime(e.SubmittedAt),
		ReviewedAt:  formatTime(e.ReviewedAt),
		ReviewNotes: e.ReviewNotes,
		Receipt:     toReceiptResponse(e.Receipt),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
	if e.Reviewer != nil {
		profile := toUserProfile(e.Reviewer)
		resp.ReviewedBy = &profile
	}
	return resp
}
