package service

import (
	"context"
	"time"

	"procurement/internal/model"
	"procurement/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserName   string `json:"user_name,omitempty"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name,omitempty"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	ListAuditLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	audits repository.AuditRepository
}

// NewAuditService returns a new instance of AuditService
func NewAuditService(audits repository.AuditRepository) AuditService {
	return &auditService{audits: audits}
}

func (s *auditService) ListAuditLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error) {
	entries, total, err := s.audits.List(ctx, action, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, toAuditResponse(entry))
	}
	return result, total, nil
}

func toAuditResponse(entry model.AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:         entry.ID.String(),
		Action:     entry.Action,
		EntityID:   entry.EntityID,
		EntityName: entry.EntityName,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.User != nil {
		resp.UserName = entry.User.FullName
	}
	return resp
}
