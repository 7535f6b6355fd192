package persistence

import (
	"context"

	"gorm.io/gorm"

	appledger "github.com/retail/backoffice/internal/application/ledger"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
)

// GormTransactionScope implements appledger.TransactionScope on a gorm
// transaction. Every repository handed to fn shares the transaction,
// so the guarded decrements and journal inserts of one deduction
// commit or roll back as a unit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a transaction. Business errors from fn come
// back unchanged; transaction machinery failures are wrapped as a
// transaction abort.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepositories(tx))
	})
	if err == nil {
		return nil
	}
	if shared.IsDomainError(err) {
		return err
	}
	return shared.WrapTransactionError(err)
}

// txRepositories bundles repositories bound to one transaction.
type txRepositories struct {
	products    *GormProductRepository
	batches     *GormStockBatchRepository
	movements   *GormStockMovementRepository
	adjustments *GormStockAdjustmentRepository
	sales       *GormSaleRepository
}

func newTxRepositories(tx *gorm.DB) *txRepositories {
	return &txRepositories{
		products:    NewGormProductRepository(tx),
		batches:     NewGormStockBatchRepository(tx),
		movements:   NewGormStockMovementRepository(tx),
		adjustments: NewGormStockAdjustmentRepository(tx),
		sales:       NewGormSaleRepository(tx),
	}
}

func (r *txRepositories) Products() catalog.ProductRepository            { return r.products }
func (r *txRepositories) Batches() ledger.StockBatchRepository          { return r.batches }
func (r *txRepositories) Movements() ledger.StockMovementRepository     { return r.movements }
func (r *txRepositories) Adjustments() ledger.StockAdjustmentRepository { return r.adjustments }
func (r *txRepositories) Sales() trade.SaleRepository                   { return r.sales }
