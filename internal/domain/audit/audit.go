package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared"
)

// Action names recorded in the audit log
const (
	ActionUserUnlocked       = "user.unlocked"
	ActionUserRoleChanged    = "user.role_changed"
	ActionUserDeleted        = "user.deleted"
	ActionOrderStatusChanged = "order.status_changed"
	ActionOrderPaymentStatus = "order.payment_status_changed"
	ActionOrderDeleted       = "order.deleted"
)

// Target types recorded in the audit log
const (
	TargetUser  = "user"
	TargetOrder = "order"
)

// Entry is one append-only audit record
type Entry struct {
	ID         uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    uuid.UUID              `gorm:"type:uuid;not null;index" json:"actor_id"`
	Action     string                 `gorm:"size:100;not null;index" json:"action"`
	TargetType string                 `gorm:"size:50;not null" json:"target_type"`
	TargetID   uuid.UUID              `gorm:"type:uuid;not null;index" json:"target_id"`
	Details    map[string]interface{} `gorm:"serializer:json;type:jsonb" json:"details,omitempty"`
	ClientIP   string                 `gorm:"size:64" json:"client_ip,omitempty"`
	CreatedAt  time.Time              `gorm:"not null;index" json:"created_at"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "audit_logs"
}

// NewEntry creates an audit record stamped with the current time
func NewEntry(actorID uuid.UUID, action, targetType string, targetID uuid.UUID, details map[string]interface{}, clientIP string) (*Entry, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Audit actor is required")
	}
	if action == "" || targetType == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Audit action and target type are required")
	}
	return &Entry{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		ClientIP:   clientIP,
		CreatedAt:  time.Now(),
	}, nil
}

// Filter narrows audit listings
type Filter struct {
	shared.Filter
	Action     string
	TargetType string
	TargetID   *uuid.UUID
	ActorID    *uuid.UUID
}

// Repository stores audit entries. Entries are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	FindAll(ctx context.Context, filter Filter) ([]Entry, int64, error)
}
