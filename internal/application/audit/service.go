package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/audit"
	"github.com/shopapi/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ListQuery holds the admin filters for the audit log.
// TargetID and ActorID are parsed by the handler.
type ListQuery struct {
	Action     string     `form:"action" binding:"max=100"`
	TargetType string     `form:"target_type" binding:"omitempty,oneof=user order"`
	TargetID   *uuid.UUID `form:"-"`
	ActorID    *uuid.UUID `form:"-"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// EntryResponse represents an audit entry in API responses
type EntryResponse struct {
	ID         uuid.UUID              `json:"id"`
	ActorID    uuid.UUID              `json:"actor_id"`
	Action     string                 `json:"action"`
	TargetType string                 `json:"target_type"`
	TargetID   uuid.UUID              `json:"target_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	ClientIP   string                 `json:"client_ip,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Service records and lists audit entries
type Service struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewService creates a new audit Service
func NewService(repo audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Record appends an entry through repo. Callers running inside a
// transaction pass their transactional repository.
func Record(ctx context.Context, repo audit.Repository, actorID uuid.UUID, action, targetType string, targetID uuid.UUID, details map[string]interface{}, clientIP string) error {
	entry, err := audit.NewEntry(actorID, action, targetType, targetID, details, clientIP)
	if err != nil {
		return err
	}
	return repo.Append(ctx, entry)
}

// Record appends an entry using the service's repository
func (s *Service) Record(ctx context.Context, actorID uuid.UUID, action, targetType string, targetID uuid.UUID, details map[string]interface{}, clientIP string) error {
	if err := Record(ctx, s.repo, actorID, action, targetType, targetID, details, clientIP); err != nil {
		s.logger.Error("failed to write audit entry",
			zap.String("action", action),
			zap.String("target_id", targetID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// List returns a page of audit entries, newest first
func (s *Service) List(ctx context.Context, query ListQuery) ([]EntryResponse, int64, error) {
	filter := audit.Filter{
		Filter:     shared.DefaultFilter(),
		Action:     query.Action,
		TargetType: query.TargetType,
		TargetID:   query.TargetID,
		ActorID:    query.ActorID,
	}
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}

	entries, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{
			ID:         e.ID,
			ActorID:    e.ActorID,
			Action:     e.Action,
			TargetType: e.TargetType,
			TargetID:   e.TargetID,
			Details:    e.Details,
			ClientIP:   e.ClientIP,
			CreatedAt:  e.CreatedAt,
		}
	}
	return out, total, nil
}
