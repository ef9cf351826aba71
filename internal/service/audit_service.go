package service

import (
	"context"

	"expensems/internal/repository"
	"expensems/pkg/api"
	"expensems/pkg/pagination"
)

type AuditLogResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	Action    string `json:"action"`
	EntityID  string `json:"entityId"`
	Details   string `json:"details"`
	CreatedAt string `json:"createdAt"`
}

type AuditService interface {
	List(ctx context.Context, params pagination.Params) (api.Page[AuditLogResponse], error)
}

type auditService struct {
	audit repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(audit repository.AuditRepository) AuditService {
	return &auditService{audit: audit}
}

func (s *auditService) List(ctx context.Context, params pagination.Params) (api.Page[AuditLogResponse], error) {
	logs, total, err := s.audit.List(ctx, params)
	if err != nil {
		return api.Page[AuditLogResponse]{}, err
	}

	content := make([]AuditLogResponse, 0, len(logs))
	for _, entry := range logs {
		row := AuditLogResponse{
			ID:        entry.ID.String(),
			Action:    entry.Action,
			EntityID:  entry.EntityID,
			Details:   entry.Details,
			CreatedAt: entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if entry.UserID != nil {
			row.UserID = entry.UserID.String()
		}
		if entry.User != nil {
			row.UserEmail = entry.User.Email
		}
		content = append(content, row)
	}

	return api.NewPage(content, total, params.Page, params.Size), nil
}
