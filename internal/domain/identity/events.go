package identity

import "github.com/shopapi/backend/internal/domain/shared"

// AggregateTypeUser is the aggregate type for user events
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserRegistered = "user.registered"
	EventTypeUserUnlocked   = "user.unlocked"
)

// UserRegisteredEvent is published when a new account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Username:        user.Username,
		Email:           user.Email,
	}
}

// UserUnlockedEvent is published when an administrator clears a lockout
type UserUnlockedEvent struct {
	shared.BaseDomainEvent
	Username       string     `json:"username"`
	PreviousStatus LockStatus `json:"previous_status"`
}

// NewUserUnlockedEvent creates a new UserUnlockedEvent
func NewUserUnlockedEvent(user *User, prev LockStatus) *UserUnlockedEvent {
	return &UserUnlockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserUnlocked, AggregateTypeUser, user.ID),
		Username:        user.Username,
		PreviousStatus:  prev,
	}
}
