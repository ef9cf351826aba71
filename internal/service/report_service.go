package service

import (
	"context"
	"fmt"
	"time"

	"expensems/pkg/api"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportSummary aggregates a user's expenses over a date range.
type ReportSummary struct {
	StartDate    string              `json:"startDate,omitempty"`
	EndDate      string              `json:"endDate,omitempty"`
	TotalCount   int64               `json:"totalCount"`
	TotalAmount  float64             `json:"totalAmount"`
	ByStatus     []StatusBreakdown   `json:"byStatus"`
	ByCategory   []CategoryBreakdown `json:"byCategory"`
}

type StatusBreakdown struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type CategoryBreakdown struct {
	CategoryID   uuid.UUID `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Count        int64     `json:"count"`
	Amount       float64   `json:"amount"`
}

// ReportService aggregates expense totals and exports them as a workbook.
// Scope: the caller's own expenses for USER, all expenses for
// MANAGER/ADMIN.
type ReportService interface {
	Summary(ctx context.Context, userID, role string, startDate, endDate *time.Time) (*ReportSummary, error)
	Export(ctx context.Context, userID, role string, startDate, endDate *time.Time) ([]byte, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

func (s *reportService) scoped(ctx context.Context, userID, role string, startDate, endDate *time.Time) *gorm.DB {
	q := s.db.WithContext(ctx).Table("expenses")
	if role != api.RoleManager && role != api.RoleAdmin {
		q = q.Where("expenses.user_id = ?", userID)
	}
	if startDate != nil {
		q = q.Where("expenses.expense_date >= ?", *startDate)
	}
	if endDate != nil {
		q = q.Where("expenses.expense_date <= ?", *endDate)
	}
	return q
}

func (s *reportService) Summary(ctx context.Context, userID, role string, startDate, endDate *time.Time) (*ReportSummary, error) {
	summary := &ReportSummary{}
	if startDate != nil {
		summary.StartDate = startDate.Format(dateLayout)
	}
	if endDate != nil {
		summary.EndDate = endDate.Format(dateLayout)
	}

	var totals struct {
		Count  int64
		Amount float64
	}
	err := s.scoped(ctx, userID, role, startDate, endDate).
		Select("COUNT(*) as count, COALESCE(SUM(amount), 0) as amount").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	summary.TotalCount = totals.Count
	summary.TotalAmount = totals.Amount

	var byStatus []StatusBreakdown
	err = s.scoped(ctx, userID, role, startDate, endDate).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as amount").
		Group("status").
		Order("status asc").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	summary.ByStatus = byStatus

	var byCategory []CategoryBreakdown
	err = s.scoped(ctx, userID, role, startDate, endDate).
		Select("categories.id as category_id, categories.name as category_name, COUNT(*) as count, COALESCE(SUM(expenses.amount), 0) as amount").
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Group("categories.id, categories.name").
		Order("amount DESC").
		Scan(&byCategory).Error
	if err != nil {
		return nil, err
	}
	summary.ByCategory = byCategory

	return summary, nil
}

// Export renders the summary as an xlsx workbook with one sheet per
// breakdown.
func (s *reportService) Export(ctx context.Context, userID, role string, startDate, endDate *time.Time) ([]byte, error) {
	summary, err := s.Summary(ctx, userID, role, startDate, endDate)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Summary"
	f.SetSheetName("Sheet1", sheet)
	_ = f.SetCellValue(sheet, "A1", "Total expenses")
	_ = f.SetCellValue(sheet, "B1", summary.TotalCount)
	_ = f.SetCellValue(sheet, "A2", "Total amount")
	_ = f.SetCellValue(sheet, "B2", summary.TotalAmount)

	_ = f.SetCellValue(sheet, "A4", "Status")
	_ = f.SetCellValue(sheet, "B4", "Count")
	_ = f.SetCellValue(sheet, "C4", "Amount")
	for i, row := range summary.ByStatus {
		r := 5 + i
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Status)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.Count)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.Amount)
	}

	catSheet := "By Category"
	if _, err := f.NewSheet(catSheet); err != nil {
		return nil, err
	}
	_ = f.SetCellValue(catSheet, "A1", "Category")
	_ = f.SetCellValue(catSheet, "B1", "Count")
	_ = f.SetCellValue(catSheet, "C1", "Amount")
	for i, row := range summary.ByCategory {
		r := 2 + i
		_ = f.SetCellValue(catSheet, fmt.Sprintf("A%d", r), row.CategoryName)
		_ = f.SetCellValue(catSheet, fmt.Sprintf("B%d", r), row.Count)
		_ = f.SetCellValue(catSheet, fmt.Sprintf("C%d", r), row.Amount)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
