package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"expensems/internal/model"
	"expensems/internal/repository"
	"expensems/internal/websocket"
	"expensems/pkg/api"
	"expensems/pkg/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExpenseListFilter is the parsed query-string filter for listings.
type ExpenseListFilter struct {
	Status     string
	CategoryID string
	StartDate  string
	EndDate    string
}

// ExpenseService owns the expense lifecycle: CRUD for owners, submit for
// approval, and manager review. Status transition rules are enforced here,
// nowhere else.
type ExpenseService interface {
	Create(ctx context.Context, userID string, req api.ExpenseRequest) (*api.Expense, error)
	GetByID(ctx context.Context, userID, role string, id uuid.UUID) (*api.Expense, error)
	List(ctx context.Context, userID string, filter ExpenseListFilter, params pagination.Params) (api.Page[api.Expense], error)
	Update(ctx context.Context, userID string, id uuid.UUID, req api.ExpenseRequest) (*api.Expense, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	Submit(ctx context.Context, userID string, id uuid.UUID) (*api.Expense, error)
	Pending(ctx context.Context) ([]api.Expense, error)
	Approve(ctx context.Context, reviewerID string, id uuid.UUID, notes string) (*api.Expense, error)
	Reject(ctx context.Context, reviewerID string, id uuid.UUID, notes string) (*api.Expense, error)
}

type expenseService struct {
	expenses   repository.ExpenseRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	audit      repository.AuditRepository
	txManager  repository.TransactionManager
	hub        *websocket.Hub
	logger     *zap.Logger
}

func NewExpenseService(
	expenses repository.ExpenseRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	audit repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
	logger *zap.Logger,
) ExpenseService {
	return &expenseService{
		expenses:   expenses,
		categories: categories,
		users:      users,
		audit:      audit,
		txManager:  txManager,
		hub:        hub,
		logger:     logger,
	}
}

// validateRequest applies the backend's authoritative payload checks.
// Clients duplicate these loosely for UX; this is the real gate.
func (s *expenseService) validateRequest(ctx context.Context, req api.ExpenseRequest) (*model.Category, time.Time, error) {
	fields := map[string]string{}

	if !req.Amount.IsPositive() {
		fields["amount"] = "Amount must be a positive number"
	}

	var expenseDate time.Time
	parsed, err := time.ParseInLocation(dateLayout, req.ExpenseDate, time.Local)
	if err != nil {
		fields["expenseDate"] = "Expense date must be in YYYY-MM-DD format"
	} else {
		expenseDate = parsed
		// Compare calendar days in the server's zone; truncating the
		// absolute instant would shift the boundary by the UTC offset.
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		if parsed.After(today) {
			fields["expenseDate"] = "Expense date cannot be in the future"
		}
	}

	if req.Description == "" {
		fields["description"] = "Description is required"
	} else if len(req.Description) > 1000 {
		fields["description"] = "Description must be at most 1000 characters"
	}

	var category *model.Category
	if req.CategoryID == uuid.Nil {
		fields["categoryId"] = "Category is required"
	} else {
		category, err = s.categories.GetByID(ctx, req.CategoryID)
		if err != nil {
			fields["categoryId"] = "Category not found"
		}
	}

	if len(fields) > 0 {
		return nil, time.Time{}, newValidationError("Validation failed", fields)
	}
	return category, expenseDate, nil
}

func (s *expenseService) Create(ctx context.Context, userID string, req api.ExpenseRequest) (*api.Expense, error) {
	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrNotFound
	}

	category, expenseDate, err := s.validateRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	expense := &model.Expense{
		UserID:      owner.ID,
		CategoryID:  category.ID,
		Category:    *category,
		Amount:      req.Amount,
		ExpenseDate: expenseDate,
		Description: req.Description,
		Status:      api.StatusDraft,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenses.Create(txCtx, expense); err != nil {
			return err
		}
		return s.writeAudit(txCtx, owner.ID, model.ActionCreateExpense, expense)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense created",
		zap.String("expense_id", expense.ID.String()),
		zap.String("user_id", userID))
	return toExpenseResponse(expense), nil
}

func (s *expenseService) GetByID(ctx context.Context, userID, role string, id uuid.UUID) (*api.Expense, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Reviewers may inspect any expense; everyone else only their own.
	if expense.UserID.String() != userID && role != api.RoleManager && role != api.RoleAdmin {
		return nil, ErrForbidden
	}
	return toExpenseResponse(expense), nil
}

func (s *expenseService) List(ctx context.Context, userID string, filter ExpenseListFilter, params pagination.Params) (api.Page[api.Expense], error) {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return api.Page[api.Expense]{}, ErrUnauthorized
	}

	repoFilter := repository.ExpenseFilter{UserID: &owner, Status: filter.Status}
	if filter.CategoryID != "" {
		categoryID, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			return api.Page[api.Expense]{}, newValidationError("Validation failed", map[string]string{
				"categoryId": "Invalid category id",
			})
		}
		repoFilter.CategoryID = &categoryID
	}
	if filter.StartDate != "" {
		start, err := time.Parse(dateLayout, filter.StartDate)
		if err != nil {
			return api.Page[api.Expense]{}, newValidationError("Validation failed", map[string]string{
				"startDate": "Start date must be in YYYY-MM-DD format",
			})
		}
		repoFilter.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := time.Parse(dateLayout, filter.EndDate)
		if err != nil {
			return api.Page[api.Expense]{}, newValidationError("Validation failed", map[string]string{
				"endDate": "End date must be in YYYY-MM-DD format",
			})
		}
		repoFilter.EndDate = &end
	}

	expenses, total, err := s.expenses.List(ctx, repoFilter, params)
	if err != nil {
		return api.Page[api.Expense]{}, err
	}

	content := make([]api.Expense, 0, len(expenses))
	for i := range expenses {
		content = append(content, *toExpenseResponse(&expenses[i]))
	}
	return api.NewPage(content, total, params.Page, params.Size), nil
}

func (s *expenseService) Update(ctx context.Context, userID string, id uuid.UUID, req api.ExpenseRequest) (*api.Expense, error) {
	expense, err := s.ownedExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if expense.Status != api.StatusDraft {
		return nil, ErrInvalidState
	}

	category, expenseDate, err := s.validateRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	expense.CategoryID = category.ID
	expense.Category = *category
	expense.Amount = req.Amount
	expense.ExpenseDate = expenseDate
	expense.Description = req.Description

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenses.Update(txCtx, expense); err != nil {
			return err
		}
		return s.writeAudit(txCtx, expense.UserID, model.ActionUpdateExpense, expense)
	})
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

func (s *expenseService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	expense, err := s.ownedExpense(ctx, userID, id)
	if err != nil {
		return err
	}
	if expense.Status != api.StatusDraft {
		return ErrInvalidState
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenses.Delete(txCtx, expense); err != nil {
			return err
		}
		return s.writeAudit(txCtx, expense.UserID, model.ActionDeleteExpense, expense)
	})
}

func (s *expenseService) Submit(ctx context.Context, userID string, id uuid.UUID) (*api.Expense, error) {
	expense, err := s.ownedExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if expense.Status != api.StatusDraft {
		s.logger.Warn("submit rejected: expense not in DRAFT",
			zap.String("expense_id", id.String()),
			zap.String("status", expense.Status))
		return nil, ErrInvalidState
	}

	now := time.Now()
	expense.Status = api.StatusSubmitted
	expense.SubmittedAt = &now

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenses.Update(txCtx, expense); err != nil {
			return err
		}
		return s.writeAudit(txCtx, expense.UserID, model.ActionSubmitExpense, expense)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify(websocket.Event{
		Type:      websocket.EventExpenseSubmitted,
		ExpenseID: expense.ID.String(),
		Status:    expense.Status,
		ActorID:   userID,
		OwnerID:   expense.UserID.String(),
	})
	return toExpenseResponse(expense), nil
}

func (s *expenseService) Pending(ctx context.Context) ([]api.Expense, error) {
	expenses, err := s.expenses.FindByStatus(ctx, api.StatusSubmitted)
	if err != nil {
		return nil, err
	}
	result := make([]api.Expense, 0, len(expenses))
	for i := range expenses {
		result = append(result, *toExpenseResponse(&expenses[i]))
	}
	return result, nil
}

func (s *expenseService) Approve(ctx context.Context, reviewerID string, id uuid.UUID, notes string) (*api.Expense, error) {
	return s.review(ctx, reviewerID, id, notes, api.StatusApproved)
}

func (s *expenseService) Reject(ctx context.Context, reviewerID string, id uuid.UUID, notes string) (*api.Expense, error) {
	return s.review(ctx, reviewerID, id, notes, api.StatusRejected)
}

func (s *expenseService) review(ctx context.Context, reviewerID string, id uuid.UUID, notes, verdict string) (*api.Expense, error) {
	reviewer, err := s.users.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, ErrNotFound
	}

	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if expense.Status != api.StatusSubmitted {
		s.logger.Warn("review rejected: expense not in SUBMITTED",
			zap.String("expense_id", id.String()),
			zap.String("status", expense.Status))
		return nil, ErrInvalidState
	}

	now := time.Now()
	expense.Status = verdict
	expense.ReviewedAt = &now
	expense.ReviewedBy = &reviewer.ID
	expense.Reviewer = reviewer
	expense.ReviewNotes = notes

	action := model.ActionApproveExpense
	event := websocket.EventExpenseApproved
	if verdict == api.StatusRejected {
		action = model.ActionRejectExpense
		event = websocket.EventExpenseRejected
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenses.Update(txCtx, expense); err != nil {
			return err
		}
		return s.writeAudit(txCtx, reviewer.ID, action, expense)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify(websocket.Event{
		Type:      event,
		ExpenseID: expense.ID.String(),
		Status:    expense.Status,
		ActorID:   reviewerID,
		OwnerID:   expense.UserID.String(),
	})
	s.logger.Info("expense reviewed",
		zap.String("expense_id", id.String()),
		zap.String("verdict", verdict),
		zap.String("reviewer_id", reviewerID))
	return toExpenseResponse(expense), nil
}

// ownedExpense fetches an expense and verifies the caller owns it.
func (s *expenseService) ownedExpense(ctx context.Context, userID string, id uuid.UUID) (*model.Expense, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if expense.UserID.String() != userID {
		return nil, ErrForbidden
	}
	return expense, nil
}

func (s *expenseService) writeAudit(ctx context.Context, actorID uuid.UUID, action string, expense *model.Expense) error {
	details, _ := json.Marshal(map[string]interface{}{
		"amount":      expense.Amount,
		"status":      expense.Status,
		"expenseDate": expense.ExpenseDate.Format(dateLayout),
	})
	return s.audit.Log(ctx, &model.AuditLog{
		UserID:   &actorID,
		Action:   action,
		EntityID: expense.ID.String(),
		Details:  string(details),
	})
}
