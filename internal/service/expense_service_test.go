package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"expensems/internal/model"
	"expensems/internal/repository"
	"expensems/internal/websocket"
	"expensems/pkg/api"
	"expensems/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// In-memory repository fakes. They honor the same not-found semantics as
// the GORM implementations (gorm.ErrRecordNotFound) so the service's error
// mapping is exercised for real.

type fakeExpenseRepo struct {
	expenses map[uuid.UUID]*model.Expense
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: map[uuid.UUID]*model.Expense{}}
}

func (r *fakeExpenseRepo) Create(_ context.Context, expense *model.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	stored := *expense
	r.expenses[expense.ID] = &stored
	return nil
}

func (r *fakeExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	stored, ok := r.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeExpenseRepo) List(_ context.Context, filter repository.ExpenseFilter, params pagination.Params) ([]model.Expense, int64, error) {
	var matched []model.Expense
	for _, e := range r.expenses {
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.CategoryID != nil && e.CategoryID != *filter.CategoryID {
			continue
		}
		matched = append(matched, *e)
	}
	total := int64(len(matched))
	if params.Offset >= len(matched) {
		return nil, total, nil
	}
	end := params.Offset + params.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[params.Offset:end], total, nil
}

func (r *fakeExpenseRepo) FindByStatus(_ context.Context, status string) ([]model.Expense, error) {
	var matched []model.Expense
	for _, e := range r.expenses {
		if e.Status == status {
			matched = append(matched, *e)
		}
	}
	return matched, nil
}

func (r *fakeExpenseRepo) Update(_ context.Context, expense *model.Expense) error {
	if _, ok := r.expenses[expense.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *expense
	r.expenses[expense.ID] = &stored
	return nil
}

func (r *fakeExpenseRepo) Delete(_ context.Context, expense *model.Expense) error {
	delete(r.expenses, expense.ID)
	return nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.users[user.ID.String()] = user
	return nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[uuid.UUID]*model.Category{}}
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var result []model.Category
	for _, c := range r.categories {
		result = append(result, *c)
	}
	return result, nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, params pagination.Params) ([]model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// fixture wires the service against the fakes with a running hub.
type fixture struct {
	svc        ExpenseService
	expenses   *fakeExpenseRepo
	users      *fakeUserRepo
	categories *fakeCategoryRepo
	audit      *fakeAuditRepo

	owner    *model.User
	manager  *model.User
	category *model.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		expenses:   newFakeExpenseRepo(),
		users:      newFakeUserRepo(),
		categories: newFakeCategoryRepo(),
		audit:      &fakeAuditRepo{},
	}

	f.owner = &model.User{ID: uuid.New(), Email: "owner@example.com", Role: api.RoleUser}
	f.manager = &model.User{ID: uuid.New(), Email: "manager@example.com", Role: api.RoleManager}
	f.users.users[f.owner.ID.String()] = f.owner
	f.users.users[f.manager.ID.String()] = f.manager

	f.category = &model.Category{ID: uuid.New(), Name: "Travel"}
	f.categories.categories[f.category.ID] = f.category

	hub := websocket.NewHub(zap.NewNop())
	go hub.Run()

	f.svc = NewExpenseService(f.expenses, f.categories, f.users, f.audit, fakeTxManager{}, hub, zap.NewNop())
	return f
}

func (f *fixture) validRequest() api.ExpenseRequest {
	return api.ExpenseRequest{
		CategoryID:  f.category.ID,
		Amount:      decimal.RequireFromString("42.50"),
		ExpenseDate: time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		Description: "Taxi to the airport",
	}
}

func (f *fixture) createdExpense(t *testing.T) *api.Expense {
	t.Helper()
	expense, err := f.svc.Create(context.Background(), f.owner.ID.String(), f.validRequest())
	require.NoError(t, err)
	return expense
}

func TestCreateStartsAsDraft(t *testing.T) {
	f := newFixture(t)

	expense := f.createdExpense(t)

	assert.Equal(t, api.StatusDraft, expense.Status)
	assert.Equal(t, "Travel", expense.Category.Name)
	assert.True(t, expense.Amount.Equal(decimal.RequireFromString("42.50")))
	assert.Empty(t, expense.SubmittedAt)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, model.ActionCreateExpense, f.audit.entries[0].Action)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	tests := []struct {
		name   string
		mutate func(*api.ExpenseRequest)
		field  string
		want   string
	}{
		{"zero amount", func(r *api.ExpenseRequest) { r.Amount = decimal.Zero }, "amount", "Amount must be a positive number"},
		{"negative amount", func(r *api.ExpenseRequest) { r.Amount = decimal.RequireFromString("-1") }, "amount", "Amount must be a positive number"},
		{"future date", func(r *api.ExpenseRequest) { r.ExpenseDate = tomorrow }, "expenseDate", "Expense date cannot be in the future"},
		{"malformed date", func(r *api.ExpenseRequest) { r.ExpenseDate = "not-a-date" }, "expenseDate", "Expense date must be in YYYY-MM-DD format"},
		{"empty description", func(r *api.ExpenseRequest) { r.Description = "" }, "description", "Description is required"},
		{"missing category", func(r *api.ExpenseRequest) { r.CategoryID = uuid.Nil }, "categoryId", "Category is required"},
		{"unknown category", func(r *api.ExpenseRequest) { r.CategoryID = uuid.New() }, "categoryId", "Category not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.validRequest()
			tt.mutate(&req)

			_, err := f.svc.Create(context.Background(), f.owner.ID.String(), req)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.want, valErr.Fields[tt.field])
		})
	}
}

func TestCreateValidationDateZones(t *testing.T) {
	setZone := func(t *testing.T, zone *time.Location) {
		t.Helper()
		old := time.Local
		time.Local = zone
		t.Cleanup(func() { time.Local = old })
	}

	t.Run("west of UTC rejects local tomorrow", func(t *testing.T) {
		setZone(t, time.FixedZone("UTC-12", -12*60*60))
		f := newFixture(t)

		req := f.validRequest()
		req.ExpenseDate = time.Now().AddDate(0, 0, 1).Format("2006-01-02")

		_, err := f.svc.Create(context.Background(), f.owner.ID.String(), req)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "Expense date cannot be in the future", valErr.Fields["expenseDate"])
	})

	t.Run("east of UTC accepts local today", func(t *testing.T) {
		setZone(t, time.FixedZone("UTC+13", 13*60*60))
		f := newFixture(t)

		req := f.validRequest()
		req.ExpenseDate = time.Now().Format("2006-01-02")

		_, err := f.svc.Create(context.Background(), f.owner.ID.String(), req)
		assert.NoError(t, err)
	})
}

func TestGetByIDOwnership(t *testing.T) {
	f := newFixture(t)
	expense := f.createdExpense(t)
	ctx := context.Background()

	got, err := f.svc.GetByID(ctx, f.owner.ID.String(), api.RoleUser, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, expense.ID, got.ID)

	// Another plain user is locked out, but a manager may inspect it.
	_, err = f.svc.GetByID(ctx, uuid.NewString(), api.RoleUser, expense.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.GetByID(ctx, f.manager.ID.String(), api.RoleManager, expense.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(ctx, f.owner.ID.String(), api.RoleUser, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIDIsRepeatable(t *testing.T) {
	f := newFixture(t)
	expense := f.createdExpense(t)
	ctx := context.Background()

	first, err := f.svc.GetByID(ctx, f.owner.ID.String(), api.RoleUser, expense.ID)
	require.NoError(t, err)
	second, err := f.svc.GetByID(ctx, f.owner.ID.String(), api.RoleUser, expense.ID)
	require.NoError(t, err)

	// Reads never mutate: repeated fetches return the same view and leave
	// the audit trail with only the create entry.
	assert.Equal(t, first, second)
	assert.Equal(t, api.StatusDraft, second.Status)
	assert.Len(t, f.audit.entries, 1)
}

func TestSubmitTransitionsDraft(t *testing.T) {
	f := newFixture(t)
	expense := f.createdExpense(t)

	submitted, err := f.svc.Submit(context.Background(), f.owner.ID.String(), expense.ID)
	require.NoError(t, err)

	assert.Equal(t, api.StatusSubmitted, submitted.Status)
	assert.NotEmpty(t, submitted.SubmittedAt)

	// A second submit must fail: the expense left DRAFT.
	_, err = f.svc.Submit(context.Background(), f.owner.ID.String(), expense.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	expense := f.createdExpense(t)

	_, err := f.svc.Submit(context.Background(), f.manager.ID.String(), expense.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateOnlyDraft(t *testing.T) {
	f := newFixture(t)
	expense := f.createdExpense(t)
	ctx := context.Background()

	req := f.validRequest()
	req.Description = "Updated description"
	updated, err := f.svc.Update(ctx, f.owner.ID.String(), expense.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Updated description", updated.Description)

	_, err = f.svc.Submit(ctx, f.owner.ID.String(), expense.ID)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.owner.ID.String(), expense.ID, req)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDeleteOnlyDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.createdExpense(t)
	require.NoError(t, f.svc.Delete(ctx, f.owner.ID.String(), draft.ID))
	_, err := f.svc.GetByID(ctx, f.owner.ID.String(), api.RoleUser, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	submitted := f.createdExpense(t)
	_, err = f.svc.Submit(ctx, f.owner.ID.String(), submitted.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.owner.ID.String(), submitted.ID), ErrInvalidState)
}

func TestApproveStampsReviewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expense := f.createdExpense(t)
	_, err := f.svc.Submit(ctx, f.owner.ID.String(), expense.ID)
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, f.manager.ID.String(), expense.ID, "looks good")
	require.NoError(t, err)

	assert.Equal(t, api.StatusApproved, approved.Status)
	assert.NotEmpty(t, approved.ReviewedAt)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, f.manager.ID, approved.ReviewedBy.ID)
	assert.Equal(t, "looks good", approved.ReviewNotes)

	// Terminal states cannot be reviewed again.
	_, err = f.svc.Reject(ctx, f.manager.ID.String(), expense.ID, "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRejectRequiresSubmitted(t *testing.T) {
	f := newFixture(t)
	expense := f.createdExpense(t)

	_, err := f.svc.Reject(context.Background(), f.manager.ID.String(), expense.ID, "missing receipt")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPendingListsSubmittedOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.createdExpense(t)
	_ = draft
	submitted := f.createdExpense(t)
	_, err := f.svc.Submit(ctx, f.owner.ID.String(), submitted.ID)
	require.NoError(t, err)

	pending, err := f.svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, submitted.ID, pending[0].ID)
}

func TestListScopesToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createdExpense(t)
	f.createdExpense(t)

	otherOwner := &model.User{ID: uuid.New(), Email: "other@example.com", Role: api.RoleUser}
	f.users.users[otherOwner.ID.String()] = otherOwner
	_, err := f.svc.Create(ctx, otherOwner.ID.String(), f.validRequest())
	require.NoError(t, err)

	page, err := f.svc.List(ctx, f.owner.ID.String(), ExpenseListFilter{}, pagination.Params{Size: 10, SortBy: "expense_date", SortDir: "desc"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.TotalElements)
	assert.Len(t, page.Content, 2)
}

func TestListFilterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(context.Background(), f.owner.ID.String(),
		ExpenseListFilter{StartDate: "01-01-2026"}, pagination.Params{Size: 10})

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields, "startDate")
}
