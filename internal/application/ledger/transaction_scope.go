package ledger

import (
	"context"

	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/trade"
)

// TransactionalRepositories exposes every repository bound to one
// database transaction. All writes issued through them commit or roll
// back together.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Batches() ledger.StockBatchRepository
	Movements() ledger.StockMovementRepository
	Adjustments() ledger.StockAdjustmentRepository
	Sales() trade.SaleRepository
}

// TransactionScope runs a function inside a single database
// transaction. An error from fn rolls everything back; the scope
// returns the business error unchanged and wraps datastore failures as
// a transaction abort.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope passes fixed repositories through without any
// transaction semantics. Test helper.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute invokes fn with the configured repositories.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

// StaticRepositories is a plain TransactionalRepositories bundle used
// with NoOpTransactionScope in tests and read paths.
type StaticRepositories struct {
	ProductRepo    catalog.ProductRepository
	BatchRepo      ledger.StockBatchRepository
	MovementRepo   ledger.StockMovementRepository
	AdjustmentRepo ledger.StockAdjustmentRepository
	SaleRepo       trade.SaleRepository
}

func (r *StaticRepositories) Products() catalog.ProductRepository            { return r.ProductRepo }
func (r *StaticRepositories) Batches() ledger.StockBatchRepository          { return r.BatchRepo }
func (r *StaticRepositories) Movements() ledger.StockMovementRepository     { return r.MovementRepo }
func (r *StaticRepositories) Adjustments() ledger.StockAdjustmentRepository { return r.AdjustmentRepo }
func (r *StaticRepositories) Sales() trade.SaleRepository                   { return r.SaleRepo }
