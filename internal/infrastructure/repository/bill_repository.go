package repository

import (
	"context"
	"errors"
	"log"

	"github.com/rkstores/wholesale-api/internal/domain/entity"
	domainRepo "github.com/rkstores/wholesale-api/internal/domain/repository"
	"github.com/rkstores/wholesale-api/internal/pricing"
	"github.com/rkstores/wholesale-api/pkg/apperror"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// Commit inserts the bill with its items, decrements stock for every
// line, and records the purchase on the customer ledger, all inside
// one transaction. A failed stock decrement aborts everything.
func (r *billRepository) Commit(ctx context.Context, bill *entity.Bill, purchaseDate string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bill).Error; err != nil {
			return err
		}
		for i := range bill.Items {
			item := &bill.Items[i]
			if item.ProductID == nil {
				continue
			}
			if err := decrementStock(tx, *item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return recordPurchase(tx, bill.CustomerID, bill.TotalAmount, purchaseDate)
	})
}

func (r *billRepository) Update(ctx context.Context, bill *entity.Bill, items []entity.BillItem, deltas []domainRepo.StockDelta, adjustments []domainRepo.LedgerAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range deltas {
			switch {
			case d.Delta < 0:
				if err := decrementStock(tx, d.ProductID, -d.Delta); err != nil {
					return err
				}
			case d.Delta > 0:
				if err := incrementStock(tx, d.ProductID, d.Delta); err != nil {
					return err
				}
			}
		}

		// Items are replaced wholesale: delete-then-insert is the
		// simplest correct strategy for the small bounded item counts
		// a bill carries.
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&entity.BillItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].BillID = bill.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		result := tx.Model(&entity.Bill{}).Where("id = ?", bill.ID).Updates(map[string]interface{}{
			"customer_id":           bill.CustomerID,
			"customer_name":         bill.CustomerName,
			"bill_type":             bill.BillType,
			"billing_date":          bill.BillingDate,
			"subtotal":              bill.Subtotal,
			"item_discount_amount":  bill.ItemDiscountAmount,
			"bill_discount_percent": bill.BillDiscountPercent,
			"bill_discount_amount":  bill.BillDiscountAmount,
			"total_amount":          bill.TotalAmount,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NewNotFoundError("Bill")
		}

		for _, adj := range adjustments {
			if err := adjustPurchases(tx, adj); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *billRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bill entity.Bill
		if err := tx.Preload("Items").First(&bill, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFoundError("Bill")
			}
			return err
		}

		for _, item := range bill.Items {
			if item.ProductID == nil {
				// Product was removed from the catalog; its stock
				// ledger no longer exists, only the name snapshot.
				continue
			}
			if err := incrementStock(tx, *item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := reversePurchase(tx, bill.CustomerID, bill.TotalAmount); err != nil {
			return err
		}

		if err := tx.Where("bill_id = ?", id).Delete(&entity.BillItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Bill{}, "id = ?", id).Error
	})
}

func (r *billRepository) GetWithItems(ctx context.Context, id uint) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{})

	if params.Search != "" {
		query = query.Where("LOWER(customer_name) LIKE LOWER(?) OR LOWER(bill_no) LIKE LOWER(?)",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("id DESC").
		Find(&bills).Error

	return bills, total, err
}

// LastPurchaseAmount returns the total of the customer's most recent
// bill, or nil when the customer has no bills.
func (r *billRepository) LastPurchaseAmount(ctx context.Context, customerID uint) (*float64, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("billing_date DESC, id DESC").
		First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill.TotalAmount, nil
}

// decrementStock atomically decrements stock only if enough is on
// hand: UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?.
// Zero rows affected means the product is missing or the decrement
// would go negative; inside a transaction either way aborts the commit.
func decrementStock(tx *gorm.DB, productID uint, qty int) error {
	result := tx.Model(&entity.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var product entity.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFoundError("Product")
			}
			return err
		}
		return apperror.NewInsufficientStockError(product.Name, product.Stock)
	}
	return nil
}

// incrementStock returns stock to a product. A product deleted since
// the bill was written affects zero rows, which is fine: the snapshot
// on the bill item is all that remains of it.
func incrementStock(tx *gorm.DB, productID uint, qty int) error {
	return tx.Model(&entity.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

// recordPurchase adds the bill amount to the customer's running total
// and stamps the last purchase day (date-only ISO).
func recordPurchase(tx *gorm.DB, customerID uint, amount float64, date string) error {
	result := tx.Model(&entity.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]interface{}{
			"total_purchases": gorm.Expr("ROUND(total_purchases + ?, 2)", amount),
			"last_purchase":   date,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Customer")
	}
	return nil
}

// reversePurchase subtracts a deleted bill's amount from the running
// total, floored at zero so duplicate reversals cannot drive the
// ledger negative. The last purchase date is not rolled back. A floor
// hit is logged, since it usually means a double reversal.
func reversePurchase(tx *gorm.DB, customerID uint, amount float64) error {
	var customer entity.Customer
	err := tx.First(&customer, "id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Customer already removed; there is no ledger to reverse.
		return nil
	}
	if err != nil {
		return err
	}

	newTotal := pricing.Round2(customer.TotalPurchases - amount)
	if newTotal < 0 {
		log.Printf("Warning: reversing %.2f for customer %d exceeds running total %.2f, flooring at 0",
			amount, customerID, customer.TotalPurchases)
		newTotal = 0
	}
	return tx.Model(&entity.Customer{}).
		Where("id = ?", customerID).
		Update("total_purchases", newTotal).Error
}

// adjustPurchases reconciles the running total by a signed delta when
// a bill is edited, floored at zero. An adjustment that records new
// spend also stamps the last purchase day, like recordPurchase does.
func adjustPurchases(tx *gorm.DB, adj domainRepo.LedgerAdjustment) error {
	if adj.Delta == 0 {
		return nil
	}
	var customer entity.Customer
	err := tx.First(&customer, "id = ?", adj.CustomerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	newTotal := pricing.Round2(customer.TotalPurchases + adj.Delta)
	if newTotal < 0 {
		newTotal = 0
	}

	updates := map[string]interface{}{"total_purchases": newTotal}
	if adj.Delta > 0 && adj.Date != "" {
		updates["last_purchase"] = adj.Date
	}
	return tx.Model(&entity.Customer{}).
		Where("id = ?", adj.CustomerID).
		Updates(updates).Error
}
