package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"expensems/internal/model"
	"expensems/internal/repository"
	"expensems/internal/storage"
	"expensems/pkg/api"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxReceiptSize = 5 << 20 // 5 MiB

var allowedReceiptTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ReceiptService attaches receipt files to expenses. One receipt per
// expense; a new upload replaces the previous one. The blob write and the
// metadata row are not atomic with the expense itself; an expense may
// legitimately exist without a receipt.
type ReceiptService interface {
	Upload(ctx context.Context, userID string, expenseID uuid.UUID, fileName string, content []byte) (*api.Receipt, error)
	Download(ctx context.Context, userID, role string, id uuid.UUID) (*model.Receipt, []byte, error)
}

type receiptService struct {
	receipts  repository.ReceiptRepository
	expenses  repository.ExpenseRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
	store     *storage.ReceiptStore
	logger    *zap.Logger
}

func NewReceiptService(
	receipts repository.ReceiptRepository,
	expenses repository.ExpenseRepository,
	audit repository.AuditRepository,
	txManager repository.TransactionManager,
	store *storage.ReceiptStore,
	logger *zap.Logger,
) ReceiptService {
	return &receiptService{
		receipts:  receipts,
		expenses:  expenses,
		audit:     audit,
		txManager: txManager,
		store:     store,
		logger:    logger,
	}
}

func (s *receiptService) Upload(ctx context.Context, userID string, expenseID uuid.UUID, fileName string, content []byte) (*api.Receipt, error) {
	expense, err := s.expenses.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if expense.UserID.String() != userID {
		return nil, ErrForbidden
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	fileType, ok := allowedReceiptTypes[ext]
	if !ok {
		return nil, newValidationError("Upload rejected", map[string]string{
			"file": "Only PDF, PNG and JPEG files are accepted",
		})
	}
	if len(content) == 0 {
		return nil, newValidationError("Upload rejected", map[string]string{
			"file": "File is empty",
		})
	}
	if len(content) > maxReceiptSize {
		return nil, newValidationError("Upload rejected", map[string]string{
			"file": "File exceeds the 5 MB limit",
		})
	}

	receipt := &model.Receipt{
		ExpenseID: expenseID,
		FileName:  filepath.Base(fileName),
		FilePath:  fmt.Sprintf("%s/%s%s", expenseID, uuid.NewString(), ext),
		FileType:  fileType,
		FileSize:  int64(len(content)),
	}

	var replaced *model.Receipt
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if existing, err := s.receipts.FindByExpenseID(txCtx, expenseID); err == nil {
			replaced = existing
			if err := s.receipts.Delete(txCtx, existing); err != nil {
				return err
			}
		}
		if err := s.receipts.Create(txCtx, receipt); err != nil {
			return err
		}
		if err := s.store.Save(receipt.FilePath, content); err != nil {
			return err
		}
		return s.writeAudit(txCtx, expense.UserID, receipt)
	})
	if err != nil {
		return nil, err
	}

	// Old blob removal is best effort; the metadata row is already gone.
	if replaced != nil {
		if err := s.store.Delete(replaced.FilePath); err != nil {
			s.logger.Warn("failed to remove replaced receipt blob",
				zap.String("path", replaced.FilePath), zap.Error(err))
		}
	}

	return toReceiptResponse(receipt), nil
}

func (s *receiptService) Download(ctx context.Context, userID, role string, id uuid.UUID) (*model.Receipt, []byte, error) {
	receipt, err := s.receipts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	expense, err := s.expenses.FindByID(ctx, receipt.ExpenseID)
	if err != nil {
		return nil, nil, err
	}
	if expense.UserID.String() != userID && role != api.RoleManager && role != api.RoleAdmin {
		return nil, nil, ErrForbidden
	}

	content, err := s.store.Read(receipt.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return receipt, content, nil
}

func (s *receiptService) writeAudit(ctx context.Context, actorID uuid.UUID, receipt *model.Receipt) error {
	return s.audit.Log(ctx, &model.AuditLog{
		UserID:   &actorID,
		Action:   model.ActionUploadReceipt,
		EntityID: receipt.ExpenseID.String(),
		Details:  fmt.Sprintf(`{"fileName":%q,"fileSize":%d}`, receipt.FileName, receipt.FileSize),
	})
}
