package repository

import (
	"context"

	"expensems/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(ctx context.Context, receipt *model.Receipt) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
	FindByExpenseID(ctx context.Context, expenseID uuid.UUID) (*model.Receipt, error)
	Delete(ctx context.Context, receipt *model.Receipt) error
}

type receiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *model.Receipt) error {
	return GetDB(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	var receipt model.Receipt
	if err := GetDB(ctx, r.db).First(&receipt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) FindByExpenseID(ctx context.Context, expenseID uuid.UUID) (*model.Receipt, error) {
	var receipt model.Receipt
	if err := GetDB(ctx, r.db).First(&receipt, "expense_id = ?", expenseID).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) Delete(ctx context.Context, receipt *model.Receipt) error {
	return GetDB(ctx, r.db).Delete(receipt).Error
}
