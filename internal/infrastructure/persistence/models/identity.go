package models

import (
	"time"

	"github.com/shopapi/backend/internal/domain/identity"
	"github.com/shopapi/backend/internal/domain/shared/valueobject"
)

// UserModel is the persistence model for the User aggregate.
// The lockout state is flattened into columns and the address is stored as JSON.
type UserModel struct {
	AggregateModel
	Username            string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email               string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash        string              `gorm:"type:varchar(255);not null"`
	Name                string              `gorm:"type:varchar(100)"`
	Phone               string              `gorm:"type:varchar(50)"`
	Address             valueobject.Address `gorm:"type:text"`
	Role                identity.Role       `gorm:"type:varchar(20);not null;default:'customer';index"`
	FailedAttempts      int                 `gorm:"not null;default:0"`
	LockUntil           *time.Time
	PermanentlyLocked   bool `gorm:"not null;default:false"`
	LastFailedAttemptAt *time.Time
	LastLoginAt         *time.Time
	LastLoginIP         string `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Name:              m.Name,
		Phone:             m.Phone,
		Address:           m.Address,
		Role:              m.Role,
		Lockout: identity.LockoutState{
			FailedAttempts:      m.FailedAttempts,
			LockUntil:           m.LockUntil,
			PermanentlyLocked:   m.PermanentlyLocked,
			LastFailedAttemptAt: m.LastFailedAttemptAt,
		},
		LastLoginAt: m.LastLoginAt,
		LastLoginIP: m.LastLoginIP,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Name = u.Name
	m.Phone = u.Phone
	m.Address = u.Address
	m.Role = u.Role
	m.FailedAttempts = u.Lockout.FailedAttempts
	m.LockUntil = u.Lockout.LockUntil
	m.PermanentlyLocked = u.Lockout.PermanentlyLocked
	m.LastFailedAttemptAt = u.Lockout.LastFailedAttemptAt
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
