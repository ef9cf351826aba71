package service

import (
	"bytes"
	"context"
	"testing"

	"expensems/internal/model"
	"expensems/internal/storage"
	"expensems/pkg/api"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeReceiptRepo struct {
	receipts map[uuid.UUID]*model.Receipt
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: map[uuid.UUID]*model.Receipt{}}
}

func (r *fakeReceiptRepo) Create(_ context.Context, receipt *model.Receipt) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	stored := *receipt
	r.receipts[receipt.ID] = &stored
	return nil
}

func (r *fakeReceiptRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Receipt, error) {
	stored, ok := r.receipts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeReceiptRepo) FindByExpenseID(_ context.Context, expenseID uuid.UUID) (*model.Receipt, error) {
	for _, receipt := range r.receipts {
		if receipt.ExpenseID == expenseID {
			copied := *receipt
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReceiptRepo) Delete(_ context.Context, receipt *model.Receipt) error {
	delete(r.receipts, receipt.ID)
	return nil
}

type receiptFixture struct {
	svc      ReceiptService
	receipts *fakeReceiptRepo
	store    *storage.ReceiptStore
	audit    *fakeAuditRepo

	owner   *model.User
	manager *model.User
	expense *model.Expense
}

func newReceiptFixture(t *testing.T) *receiptFixture {
	t.Helper()

	f := &receiptFixture{
		receipts: newFakeReceiptRepo(),
		audit:    &fakeAuditRepo{},
		store:    storage.NewReceiptStore(t.TempDir(), zap.NewNop()),
	}

	f.owner = &model.User{ID: uuid.New(), Email: "owner@example.com", Role: api.RoleUser}
	f.manager = &model.User{ID: uuid.New(), Email: "manager@example.com", Role: api.RoleManager}

	expenses := newFakeExpenseRepo()
	f.expense = &model.Expense{ID: uuid.New(), UserID: f.owner.ID, Status: api.StatusDraft}
	expenses.expenses[f.expense.ID] = f.expense

	f.svc = NewReceiptService(f.receipts, expenses, f.audit, fakeTxManager{}, f.store, zap.NewNop())
	return f
}

func TestUploadAcceptsAllowedTypes(t *testing.T) {
	for _, name := range []string{"scan.pdf", "scan.png", "scan.jpg", "scan.JPEG"} {
		t.Run(name, func(t *testing.T) {
			f := newReceiptFixture(t)

			receipt, err := f.svc.Upload(context.Background(), f.owner.ID.String(), f.expense.ID, name, []byte("content"))
			require.NoError(t, err)
			assert.Equal(t, name, receipt.FileName)
			assert.Equal(t, int64(len("content")), receipt.FileSize)
		})
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	f := newReceiptFixture(t)

	for _, name := range []string{"notes.txt", "archive.zip", "receipt"} {
		_, err := f.svc.Upload(context.Background(), f.owner.ID.String(), f.expense.ID, name, []byte("content"))

		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr, name)
		assert.Equal(t, "Only PDF, PNG and JPEG files are accepted", valErr.Fields["file"])
	}
	assert.Empty(t, f.receipts.receipts)
}

func TestUploadSizeLimits(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, f.owner.ID.String(), f.expense.ID, "empty.pdf", nil)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "File is empty", valErr.Fields["file"])

	_, err = f.svc.Upload(ctx, f.owner.ID.String(), f.expense.ID, "huge.pdf", make([]byte, maxReceiptSize+1))
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "File exceeds the 5 MB limit", valErr.Fields["file"])

	// Exactly at the limit is fine.
	_, err = f.svc.Upload(ctx, f.owner.ID.String(), f.expense.ID, "full.pdf", make([]byte, maxReceiptSize))
	assert.NoError(t, err)
}

func TestUploadRequiresOwnership(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, f.manager.ID.String(), f.expense.ID, "scan.pdf", []byte("content"))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Upload(ctx, f.owner.ID.String(), uuid.New(), "scan.pdf", []byte("content"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadReplacesExisting(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()

	first, err := f.svc.Upload(ctx, f.owner.ID.String(), f.expense.ID, "first.pdf", []byte("first"))
	require.NoError(t, err)
	firstStored, err := f.receipts.FindByID(ctx, first.ID)
	require.NoError(t, err)

	second, err := f.svc.Upload(ctx, f.owner.ID.String(), f.expense.ID, "second.png", []byte("second"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// One receipt per expense: the metadata row and blob of the first
	// upload are gone, the second is readable.
	require.Len(t, f.receipts.receipts, 1)
	current, err := f.receipts.FindByExpenseID(ctx, f.expense.ID)
	require.NoError(t, err)
	assert.Equal(t, "second.png", current.FileName)

	_, err = f.store.Read(firstStored.FilePath)
	assert.Error(t, err)
	content, err := f.store.Read(current.FilePath)
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte("second"), content))
}

func TestDownloadAccess(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()

	uploaded, err := f.svc.Upload(ctx, f.owner.ID.String(), f.expense.ID, "scan.pdf", []byte("content"))
	require.NoError(t, err)

	receipt, content, err := f.svc.Download(ctx, f.owner.ID.String(), api.RoleUser, uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, "scan.pdf", receipt.FileName)
	assert.Equal(t, []byte("content"), content)

	// Another plain user is locked out; reviewers may fetch it.
	_, _, err = f.svc.Download(ctx, uuid.NewString(), api.RoleUser, uploaded.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = f.svc.Download(ctx, f.manager.ID.String(), api.RoleManager, uploaded.ID)
	assert.NoError(t, err)

	_, _, err = f.svc.Download(ctx, f.owner.ID.String(), api.RoleUser, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
