package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/domain/shared/valueobject"
	"golang.org/x/crypto/bcrypt"
)

// Role is the authorization role of a user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// ParseRole validates a raw role value
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.IsValid() {
		return "", shared.NewDomainError("INVALID_ROLE", "Role must be customer or admin")
	}
	return r, nil
}

// bcryptCost is a variable so tests can lower it
var bcryptCost = 12

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex   = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex    = regexp.MustCompile(`[0-9]`)
)

// User represents a shop account.
// It is the aggregate root for authentication and profile operations.
type User struct {
	shared.BaseAggregateRoot
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Address      valueobject.Address
	Role         Role
	Lockout      LockoutState
	LastLoginAt  *time.Time
	LastLoginIP  string
}

// NewUser creates a customer account with a hashed password
func NewUser(username, email, password, name string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		Name:              strings.TrimSpace(name),
		Role:              RoleCustomer,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

// VerifyPassword compares a plaintext password with the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword validates and stores a new password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// ChangePassword replaces the password after verifying the current one
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(next)
}

// AttemptLogin runs the lockout state machine for one login attempt and
// updates the lockout state in place. The caller persists the user whatever
// the outcome.
func (u *User) AttemptLogin(password string, now time.Time, policy LockoutPolicy, ip string) error {
	if err := u.Lockout.Check(now); err != nil {
		return err
	}

	if reset, ok := u.Lockout.ResetIfStale(now, policy); ok {
		u.Lockout = reset
	}

	if !u.VerifyPassword(password) {
		u.Lockout = u.Lockout.RecordFailure(now, policy)
		u.Touch()
		return ErrInvalidCredentials
	}

	u.Lockout = u.Lockout.RecordSuccess()
	at := now
	u.LastLoginAt = &at
	u.LastLoginIP = ip
	u.Touch()
	return nil
}

// Unlock clears every lockout field. It reports the status that was in effect.
func (u *User) Unlock(now time.Time) LockStatus {
	prev := u.Lockout.Status(now)
	u.Lockout = LockoutState{}
	u.Touch()
	u.AddDomainEvent(NewUserUnlockedEvent(u, prev))
	return prev
}

// UpdateProfile replaces the editable profile fields
func (u *User) UpdateProfile(name, email, phone string, address valueobject.Address) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		u.Email = email
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	u.Name = strings.TrimSpace(name)
	u.Phone = strings.TrimSpace(phone)
	u.Address = address
	u.Touch()
	return nil
}

// ChangeRole assigns a new role
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be customer or admin")
	}
	u.Role = role
	u.Touch()
	return nil
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	// bcrypt ignores bytes past 72
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
