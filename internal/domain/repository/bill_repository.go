package repository

import (
	"context"

	"github.com/rkstores/wholesale-api/internal/domain/entity"
	"github.com/rkstores/wholesale-api/pkg/pagination"
)

// StockDelta describes a signed stock adjustment for one product.
// A negative delta consumes stock, a positive delta returns it.
type StockDelta struct {
	ProductID uint
	Delta     int
}

// LedgerAdjustment describes a signed change to a customer's running
// purchase total. Negative adjustments are floored at zero. Date is
// the day stamped as the customer's last purchase when the adjustment
// records new spend (positive delta).
type LedgerAdjustment struct {
	CustomerID uint
	Delta      float64
	Date       string
}

// BillFilterParams holds filter parameters for listing bills
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CustomerID *uint
}

// BillRepository defines the interface for bill data access. Commit,
// Update and Delete run their multi-table writes (bill, bill items,
// stock, customer ledger) inside a single storage transaction: either
// every side effect persists or none does.
type BillRepository interface {
	// Commit inserts bill and its items, applies the given stock
	// decrements, and records the purchase on the customer ledger.
	Commit(ctx context.Context, bill *entity.Bill, purchaseDate string) error

	// Update overwrites the bill's aggregate fields, replaces its
	// items wholesale, applies the per-product stock deltas, and
	// reconciles the customer ledger by the given adjustments.
	Update(ctx context.Context, bill *entity.Bill, items []entity.BillItem, deltas []StockDelta, adjustments []LedgerAdjustment) error

	// Delete removes the bill and its items, restores stock for each
	// item, and reverses the purchase on the customer ledger (floored
	// at zero).
	Delete(ctx context.Context, id uint) error

	GetWithItems(ctx context.Context, id uint) (*entity.Bill, error)
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	LastPurchaseAmount(ctx context.Context, customerID uint) (*float64, error)
}
