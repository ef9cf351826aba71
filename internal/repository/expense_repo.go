package repository

import (
	"context"
	"time"

	"expensems/internal/model"
	"expensems/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseFilter narrows a listing. Zero values mean "no constraint".
// The server applies filters verbatim; clients pass them through unmodified.
type ExpenseFilter struct {
	UserID     *uuid.UUID // owner scope; nil lists across all users
	Status     string
	CategoryID *uuid.UUID
	StartDate  *time.Time // expense_date >= StartDate
	EndDate    *time.Time // expense_date <= EndDate
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, filter ExpenseFilter, params pagination.Params) ([]model.Expense, int64, error)
	FindByStatus(ctx context.Context, status string) ([]model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, expense *model.Expense) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	err := GetDB(ctx, r.db).
		Preload("Category").
		Preload("Receipt").
		Preload("Reviewer").
		First(&expense, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, filter ExpenseFilter, params pagination.Params) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Expense{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		q = q.Where("expense_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("expense_date <= ?", *filter.EndDate)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Category").
		Preload("Receipt").
		Preload("Reviewer").
		Order(params.Order()).
		Offset(params.Offset).
		Limit(params.Size).
		Find(&expenses).Error
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) FindByStatus(ctx context.Context, status string) ([]model.Expense, error) {
	var expenses []model.Expense
	err := GetDB(ctx, r.db).
		Preload("Category").
		Preload("Receipt").
		Where("status = ?", status).
		Order("submitted_at asc").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Delete(expense).Error
}
