package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/identity"
	"github.com/shopapi/backend/internal/domain/shared/valueobject"
)

// RegisterRequest creates a customer account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"max=100"`
}

// LoginRequest authenticates with a username or email
type LoginRequest struct {
	Login    string `json:"login" binding:"required,max=200"`
	Password string `json:"password" binding:"required,max=72"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the tokens to revoke
type LogoutInput struct {
	UserID       uuid.UUID
	AccessJTI    string
	AccessTTL    time.Duration
	RefreshToken string
}

// UpdateProfileRequest replaces the caller's profile fields
type UpdateProfileRequest struct {
	Name    string                  `json:"name" binding:"max=100"`
	Email   string                  `json:"email" binding:"omitempty,email,max=200"`
	Phone   string                  `json:"phone" binding:"max=50"`
	Address *valueobject.AddressDTO `json:"address"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// ChangeRoleRequest assigns a role to a user
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=customer admin"`
}

// UserListQuery represents filter options for the admin user list
type UserListQuery struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=customer admin"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AdminActor identifies the administrator making a change
type AdminActor struct {
	UserID   uuid.UUID
	ClientIP string
}

// UserResponse represents a user profile in API responses
type UserResponse struct {
	ID          uuid.UUID              `json:"id"`
	Username    string                 `json:"username"`
	Email       string                 `json:"email"`
	Name        string                 `json:"name"`
	Phone       string                 `json:"phone"`
	Address     valueobject.AddressDTO `json:"address"`
	Role        string                 `json:"role"`
	LastLoginAt *time.Time             `json:"last_login_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// LockoutResponse describes a user's lockout state for administrators
type LockoutResponse struct {
	Status              string     `json:"status"`
	FailedAttempts      int        `json:"failed_attempts"`
	LockUntil           *time.Time `json:"lock_until,omitempty"`
	LastFailedAttemptAt *time.Time `json:"last_failed_attempt_at,omitempty"`
}

// AdminUserResponse is a user as seen by administrators
type AdminUserResponse struct {
	UserResponse
	LastLoginIP string          `json:"last_login_ip,omitempty"`
	Lockout     LockoutResponse `json:"lockout"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// UnlockResponse reports the lock that an unlock cleared
type UnlockResponse struct {
	User           AdminUserResponse `json:"user"`
	PreviousStatus string            `json:"previous_status"`
}

// ToUserResponse converts a domain User
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Address:     u.Address.ToDTO(),
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToAdminUserResponse converts a domain User including lockout details
func ToAdminUserResponse(u *identity.User, now time.Time) AdminUserResponse {
	return AdminUserResponse{
		UserResponse: ToUserResponse(u),
		LastLoginIP:  u.LastLoginIP,
		Lockout: LockoutResponse{
			Status:              string(u.Lockout.Status(now)),
			FailedAttempts:      u.Lockout.FailedAttempts,
			LockUntil:           u.Lockout.LockUntil,
			LastFailedAttemptAt: u.Lockout.LastFailedAttemptAt,
		},
	}
}
