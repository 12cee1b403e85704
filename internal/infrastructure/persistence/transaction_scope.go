package persistence

import (
	"context"

	appidentity "github.com/shopapi/backend/internal/application/identity"
	apptrade "github.com/shopapi/backend/internal/application/trade"
	"github.com/shopapi/backend/internal/domain/audit"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/identity"
	"github.com/shopapi/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTradeTransactionScope runs order workflows in one GORM transaction.
// Stock adjustments, the order write and the audit entry commit together.
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTradeRepositories{tx: tx})
	})
}

type gormTradeRepositories struct {
	tx *gorm.DB
}

func (r *gormTradeRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTradeRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTradeRepositories) AuditRepo() audit.Repository {
	return NewGormAuditRepository(r.tx)
}

// GormIdentityTransactionScope runs account changes in one GORM transaction
type GormIdentityTransactionScope struct {
	db *gorm.DB
}

// NewGormIdentityTransactionScope creates a new GormIdentityTransactionScope
func NewGormIdentityTransactionScope(db *gorm.DB) *GormIdentityTransactionScope {
	return &GormIdentityTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormIdentityTransactionScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormIdentityRepositories{tx: tx})
	})
}

type gormIdentityRepositories struct {
	tx *gorm.DB
}

func (r *gormIdentityRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormIdentityRepositories) AuditRepo() audit.Repository {
	return NewGormAuditRepository(r.tx)
}

var (
	_ apptrade.TransactionScope    = (*GormTradeTransactionScope)(nil)
	_ appidentity.TransactionScope = (*GormIdentityTransactionScope)(nil)
)
