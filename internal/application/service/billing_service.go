package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rkstores/wholesale-api/internal/domain/entity"
	"github.com/rkstores/wholesale-api/internal/domain/enum"
	"github.com/rkstores/wholesale-api/internal/domain/repository"
	"github.com/rkstores/wholesale-api/internal/pricing"
	"github.com/rkstores/wholesale-api/pkg/apperror"
	"github.com/rkstores/wholesale-api/pkg/pagination"
	"github.com/rkstores/wholesale-api/pkg/utils"
)

const dateLayout = "2006-01-02"

// BillingService turns carts into durable bills. Every commit, edit
// and deletion runs its bill, bill item, stock and customer ledger
// writes in one storage transaction through the bill repository.
type BillingService struct {
	billRepo     repository.BillRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewBillingService creates a new billing service
func NewBillingService(
	billRepo repository.BillRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
) *BillingService {
	return &BillingService{
		billRepo:     billRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

// CartItemInput represents one cart entry in a commit or update.
// Rate overrides the product's catalog sell price when set.
type CartItemInput struct {
	ProductID       uint
	Quantity        int
	Rate            *float64
	DiscountPercent float64
}

// BillInput represents the input for committing or updating a bill
type BillInput struct {
	CustomerID          uint
	BillType            enum.BillType
	BillingDate         string
	BillDiscountPercent float64
	Items               []CartItemInput
}

// CommitBill validates the cart, derives all totals, and persists the
// bill with its stock and ledger side effects atomically. Returns the
// stored bill with items.
func (s *BillingService) CommitBill(ctx context.Context, input *BillInput) (*entity.Bill, error) {
	customer, totals, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	bill := &entity.Bill{
		BillNo:              utils.GenerateBillNo(),
		CustomerID:          customer.ID,
		CustomerName:        customer.Name,
		BillType:            input.BillType,
		BillingDate:         input.BillingDate,
		Subtotal:            totals.Subtotal,
		ItemDiscountAmount:  totals.ItemDiscountAmount,
		BillDiscountPercent: totals.BillDiscountPercent,
		BillDiscountAmount:  totals.BillDiscountAmount,
		TotalAmount:         totals.TotalAmount,
		Items:               linesToItems(totals.Lines),
	}

	today := s.now().Format(dateLayout)
	if err := s.billRepo.Commit(ctx, bill, today); err != nil {
		return nil, err
	}

	return s.billRepo.GetWithItems(ctx, bill.ID)
}

// UpdateBill replaces a bill's items and aggregates. Stock moves by
// the per-product quantity delta between the old and new cart, and
// the customer ledger is reconciled by the difference between the old
// and new totals.
func (s *BillingService) UpdateBill(ctx context.Context, billID uint, input *BillInput) (*entity.Bill, error) {
	existing, err := s.billRepo.GetWithItems(ctx, billID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	customer, totals, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	// Per-product stock delta: positive returns stock, negative
	// consumes more. Old items whose product left the catalog carry a
	// nil product id and have no stock to move.
	oldQty := make(map[uint]int)
	for _, item := range existing.Items {
		if item.ProductID != nil {
			oldQty[*item.ProductID] += item.Quantity
		}
	}
	newQty := make(map[uint]int)
	for _, line := range totals.Lines {
		newQty[line.ProductID] += line.Quantity
	}
	var deltas []repository.StockDelta
	for id, qty := range oldQty {
		deltas = append(deltas, repository.StockDelta{ProductID: id, Delta: qty - newQty[id]})
	}
	for id, qty := range newQty {
		if _, seen := oldQty[id]; !seen {
			deltas = append(deltas, repository.StockDelta{ProductID: id, Delta: -qty})
		}
	}

	today := s.now().Format(dateLayout)
	var adjustments []repository.LedgerAdjustment
	if customer.ID == existing.CustomerID {
		adjustments = append(adjustments, repository.LedgerAdjustment{
			CustomerID: customer.ID,
			Delta:      pricing.Round2(totals.TotalAmount - existing.TotalAmount),
			Date:       today,
		})
	} else {
		adjustments = append(adjustments,
			repository.LedgerAdjustment{CustomerID: existing.CustomerID, Delta: -existing.TotalAmount},
			repository.LedgerAdjustment{CustomerID: customer.ID, Delta: totals.TotalAmount, Date: today},
		)
	}

	bill := &entity.Bill{
		ID:                  existing.ID,
		BillNo:              existing.BillNo,
		CustomerID:          customer.ID,
		CustomerName:        customer.Name,
		BillType:            input.BillType,
		BillingDate:         input.BillingDate,
		Subtotal:            totals.Subtotal,
		ItemDiscountAmount:  totals.ItemDiscountAmount,
		BillDiscountPercent: totals.BillDiscountPercent,
		BillDiscountAmount:  totals.BillDiscountAmount,
		TotalAmount:         totals.TotalAmount,
	}

	if err := s.billRepo.Update(ctx, bill, linesToItems(totals.Lines), deltas, adjustments); err != nil {
		return nil, err
	}

	return s.billRepo.GetWithItems(ctx, billID)
}

// DeleteBill removes a bill, restores the stock its items consumed,
// and reverses the purchase on the customer ledger.
func (s *BillingService) DeleteBill(ctx context.Context, billID uint) error {
	return s.billRepo.Delete(ctx, billID)
}

// GetBill retrieves a bill with its items
func (s *BillingService) GetBill(ctx context.Context, billID uint) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills lists bills, most recent first
func (s *BillingService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// prepare validates the input, resolves the customer and products,
// and runs the pricing engine. No writes happen here.
func (s *BillingService) prepare(ctx context.Context, input *BillInput) (*entity.Customer, *pricing.Totals, error) {
	if len(input.Items) == 0 {
		return nil, nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "cart must contain at least one item"},
		})
	}

	if input.BillType == "" {
		input.BillType = enum.BillTypeCash
	}
	if !input.BillType.Valid() {
		return nil, nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "bill_type", Message: "bill type must be Cash or Credit"},
		})
	}

	if input.BillingDate == "" {
		input.BillingDate = s.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, input.BillingDate); err != nil {
		return nil, nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "billing_date", Message: "billing date must be YYYY-MM-DD"},
		})
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, nil, apperror.NewNotFoundError("Customer")
	}

	// Batch fetch all referenced products in one query
	productIDs := make([]uint, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	productMap := make(map[uint]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	cart := make([]pricing.CartItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, nil, apperror.NewNotFoundError(fmt.Sprintf("Product %d", item.ProductID))
		}
		rate := product.SellPrice
		if item.Rate != nil {
			rate = *item.Rate
		}
		cart = append(cart, pricing.CartItem{
			ProductID:       product.ID,
			Name:            product.Name,
			Rate:            rate,
			Quantity:        item.Quantity,
			DiscountPercent: item.DiscountPercent,
		})
	}

	totals, err := pricing.ComputeTotals(cart, input.BillDiscountPercent)
	if err != nil {
		return nil, nil, err
	}
	return customer, totals, nil
}

func linesToItems(lines []pricing.Line) []entity.BillItem {
	items := make([]entity.BillItem, 0, len(lines))
	for _, line := range lines {
		productID := line.ProductID
		items = append(items, entity.BillItem{
			ProductID:       &productID,
			ItemName:        line.Name,
			Quantity:        line.Quantity,
			Rate:            line.Rate,
			FinalRate:       line.FinalRate,
			DiscountPercent: line.DiscountPercent,
			DiscountAmount:  line.DiscountAmount,
			Total:           line.Total,
		})
	}
	return items
}
