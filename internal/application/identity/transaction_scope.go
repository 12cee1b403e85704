package identity

import (
	"context"

	"github.com/shopapi/backend/internal/domain/audit"
	"github.com/shopapi/backend/internal/domain/identity"
)

// TransactionScope runs account changes in one database transaction.
// Login uses it so the lockout check and the lockout write see the same
// locked row.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories that share one transaction
type TransactionalRepositories interface {
	UserRepo() identity.UserRepository
	AuditRepo() audit.Repository
}

// NoOpTransactionScope runs the function against plain repositories.
// Used in tests.
type NoOpTransactionScope struct {
	userRepo  identity.UserRepository
	auditRepo audit.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(userRepo identity.UserRepository, auditRepo audit.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{userRepo: userRepo, auditRepo: auditRepo}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// UserRepo returns the user repository
func (s *NoOpTransactionScope) UserRepo() identity.UserRepository {
	return s.userRepo
}

// AuditRepo returns the audit repository
func (s *NoOpTransactionScope) AuditRepo() audit.Repository {
	return s.auditRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
