package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared"
)

// UserFilter narrows user listings
type UserFilter struct {
	shared.Filter
	Role *Role
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create inserts a new user
	Create(ctx context.Context, user *User) error

	// Update saves every mutable field, including the lockout state
	Update(ctx context.Context, user *User) error

	// Delete removes a user by ID
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDForUpdate loads a user and locks the row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByLoginForUpdate loads a user by username or email and locks the row
	FindByLoginForUpdate(ctx context.Context, login string) (*User, error)

	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
}
