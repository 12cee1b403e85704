package trade

import (
	"context"

	"github.com/shopapi/backend/internal/domain/audit"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories an
// order workflow touches. Stock changes, the order write and the audit
// entry either all commit or all roll back.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories that share one transaction
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	OrderRepo() trade.OrderRepository
	AuditRepo() audit.Repository
}

// NoOpTransactionScope runs the function against plain repositories.
// Used in tests.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	orderRepo   trade.OrderRepository
	auditRepo   audit.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	auditRepo audit.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		auditRepo:   auditRepo,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

// AuditRepo returns the audit repository
func (s *NoOpTransactionScope) AuditRepo() audit.Repository {
	return s.auditRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
