package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

// Sale is a completed retail sale. TotalCost sums the per-line cost
// basis captured at deduction time, never the current list prices.
type Sale struct {
	shared.StoreAggregateRoot
	Number      string
	Lines       []SaleLine
	TotalAmount decimal.Decimal
	TotalCost   decimal.Decimal
	SoldAt      time.Time
}

// SaleLine is one product position on a sale. CostPrice is the actual
// cost of the stock the line consumed, recorded in the same transaction
// as the batch deduction. It is immutable after creation.
type SaleLine struct {
	shared.BaseEntity
	SaleID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineAmount  decimal.Decimal
	CostPrice   decimal.Decimal
}

// NewSale creates an empty sale.
func NewSale(storeID uuid.UUID, number string) (*Sale, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}

	return &Sale{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Number:             number,
		TotalAmount:        decimal.Zero,
		TotalCost:          decimal.Zero,
		SoldAt:             time.Now(),
	}, nil
}

// AddLine appends a line and updates the sale totals. lineCost is the
// total cost of the consumed stock for the whole line quantity.
func (s *Sale) AddLine(productID uuid.UUID, productName string, quantity, unitPrice, lineCost decimal.Decimal) (*SaleLine, error) {
	if !quantity.IsPositive() {
		return nil, shared.ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if lineCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Line cost cannot be negative")
	}

	line := SaleLine{
		BaseEntity:  shared.NewBaseEntity(),
		SaleID:      s.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineAmount:  quantity.Mul(unitPrice),
		CostPrice:   lineCost,
	}

	s.Lines = append(s.Lines, line)
	s.TotalAmount = s.TotalAmount.Add(line.LineAmount)
	s.TotalCost = s.TotalCost.Add(line.CostPrice)
	s.UpdatedAt = time.Now()

	return &s.Lines[len(s.Lines)-1], nil
}

// GrossProfit is revenue minus recorded cost basis.
func (s *Sale) GrossProfit() decimal.Decimal {
	return s.TotalAmount.Sub(s.TotalCost)
}

// GenerateSaleNumber builds an operator-facing sale number from the
// sale time and a random discriminator.
func GenerateSaleNumber(at time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("SO-%s-%s", at.Format("20060102"), suffix)
}
