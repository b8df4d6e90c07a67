package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rkstores/wholesale-api/internal/domain/entity"
	"github.com/rkstores/wholesale-api/internal/domain/enum"
	"github.com/rkstores/wholesale-api/internal/domain/repository"
	infra "github.com/rkstores/wholesale-api/internal/infrastructure/repository"
	"github.com/rkstores/wholesale-api/pkg/apperror"
	"github.com/rkstores/wholesale-api/pkg/pagination"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.Product{}, &entity.Customer{}, &entity.Supplier{}, &entity.Bill{}, &entity.BillItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newBillingService(t *testing.T, db *gorm.DB) *BillingService {
	t.Helper()
	svc := NewBillingService(
		infra.NewBillRepository(db),
		infra.NewProductRepository(db),
		infra.NewCustomerRepository(db),
	)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, name string, sellPrice float64, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, MRP: sellPrice, SellPrice: sellPrice, PurchasePrice: sellPrice * 0.8, Stock: stock, Unit: "pcs", Category: "General"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{Name: name, Phone: "9000000001"}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func TestCommitBillPersistsBillStockAndLedger(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	product := seedProduct(t, db, "Basmati Rice 5kg", 100, 10)
	customer := seedCustomer(t, db, "Asha Traders")

	bill, err := svc.CommitBill(context.Background(), &BillInput{
		CustomerID:          customer.ID,
		BillDiscountPercent: 5,
		Items:               []CartItemInput{{ProductID: product.ID, Quantity: 2, DiscountPercent: 10}},
	})
	if err != nil {
		t.Fatalf("CommitBill: %v", err)
	}

	if !strings.HasPrefix(bill.BillNo, "BILL-") {
		t.Errorf("bill no = %q, want BILL- prefix", bill.BillNo)
	}
	if bill.BillType != enum.BillTypeCash {
		t.Errorf("bill type = %q, want default Cash", bill.BillType)
	}
	if bill.BillingDate != "2026-03-15" {
		t.Errorf("billing date = %q, want 2026-03-15", bill.BillingDate)
	}
	if bill.Subtotal != 200 || bill.ItemDiscountAmount != 20 || bill.BillDiscountAmount != 9 || bill.TotalAmount != 171 {
		t.Errorf("aggregates = %v/%v/%v/%v, want 200/20/9/171",
			bill.Subtotal, bill.ItemDiscountAmount, bill.BillDiscountAmount, bill.TotalAmount)
	}
	if len(bill.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(bill.Items))
	}
	item := bill.Items[0]
	if item.ItemName != "Basmati Rice 5kg" || item.Quantity != 2 || item.FinalRate != 90 || item.Total != 180 {
		t.Errorf("item = %+v, want name/qty/finalRate/total snapshot", item)
	}

	var gotProduct entity.Product
	if err := db.First(&gotProduct, product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if gotProduct.Stock != 8 {
		t.Errorf("stock = %d, want 8", gotProduct.Stock)
	}

	var gotCustomer entity.Customer
	if err := db.First(&gotCustomer, customer.ID).Error; err != nil {
		t.Fatalf("reload customer: %v", err)
	}
	if gotCustomer.TotalPurchases != 171 {
		t.Errorf("total purchases = %v, want 171", gotCustomer.TotalPurchases)
	}
	if gotCustomer.LastPurchase == nil || *gotCustomer.LastPurchase != "2026-03-15" {
		t.Errorf("last purchase = %v, want 2026-03-15", gotCustomer.LastPurchase)
	}
}

func TestCommitBillInsufficientStockRollsBackEverything(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	plenty := seedProduct(t, db, "Sugar 1kg", 40, 10)
	scarce := seedProduct(t, db, "Ghee 500ml", 250, 5)
	customer := seedCustomer(t, db, "Ravi Stores")

	_, err := svc.CommitBill(context.Background(), &BillInput{
		CustomerID: customer.ID,
		Items: []CartItemInput{
			{ProductID: plenty.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 10},
		},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error, got nil")
	}
	if !apperror.IsInsufficientStock(err) {
		t.Fatalf("error = %v, want insufficient stock conflict", err)
	}

	// The first item's decrement must have been rolled back with the rest.
	var gotPlenty, gotScarce entity.Product
	db.First(&gotPlenty, plenty.ID)
	db.First(&gotScarce, scarce.ID)
	if gotPlenty.Stock != 10 || gotScarce.Stock != 5 {
		t.Errorf("stock = %d/%d, want untouched 10/5", gotPlenty.Stock, gotScarce.Stock)
	}

	var billCount int64
	db.Model(&entity.Bill{}).Count(&billCount)
	if billCount != 0 {
		t.Errorf("bill count = %d, want 0", billCount)
	}

	var gotCustomer entity.Customer
	db.First(&gotCustomer, customer.ID)
	if gotCustomer.TotalPurchases != 0 {
		t.Errorf("total purchases = %v, want 0", gotCustomer.TotalPurchases)
	}
}

func TestCommitBillConsumesExactRemainingStock(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	product := seedProduct(t, db, "Atta 5kg", 220, 5)
	customer := seedCustomer(t, db, "Border Case Buyer")

	// Quantity equal to stock is allowed and drains it to exactly zero.
	if _, err := svc.CommitBill(context.Background(), &BillInput{
		CustomerID: customer.ID,
		Items:      []CartItemInput{{ProductID: product.ID, Quantity: 5}},
	}); err != nil {
		t.Fatalf("CommitBill at stock boundary: %v", err)
	}

	var gotProduct entity.Product
	db.First(&gotProduct, product.ID)
	if gotProduct.Stock != 0 {
		t.Errorf("stock = %d, want 0", gotProduct.Stock)
	}

	// With nothing on hand, the next unit is refused.
	_, err := svc.CommitBill(context.Background(), &BillInput{
		CustomerID: customer.ID,
		Items:      []CartItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if !apperror.IsInsufficientStock(err) {
		t.Fatalf("error = %v, want insufficient stock conflict", err)
	}

	db.First(&gotProduct, product.ID)
	if gotProduct.Stock != 0 {
		t.Errorf("stock = %d, want still 0", gotProduct.Stock)
	}

	var billCount int64
	db.Model(&entity.Bill{}).Count(&billCount)
	if billCount != 1 {
		t.Errorf("bill count = %d, want only the first commit", billCount)
	}
}

func TestDeleteThenRecommitReproducesBill(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	product := seedProduct(t, db, "Pickle 500g", 100, 10)
	customer := seedCustomer(t, db, "Repeat Buyer")

	input := &BillInput{
		CustomerID:          customer.ID,
		BillDiscountPercent: 5,
		Items:               []CartItemInput{{ProductID: product.ID, Quantity: 2, DiscountPercent: 10}},
	}

	first, err := svc.CommitBill(context.Background(), input)
	if err != nil {
		t.Fatalf("CommitBill: %v", err)
	}

	if err := svc.DeleteBill(context.Background(), first.ID); err != nil {
		t.Fatalf("DeleteBill: %v", err)
	}

	second, err := svc.CommitBill(context.Background(), input)
	if err != nil {
		t.Fatalf("recommit: %v", err)
	}

	if second.BillNo == first.BillNo {
		t.Errorf("recommit reused bill no %q", first.BillNo)
	}
	if second.Subtotal != first.Subtotal ||
		second.ItemDiscountAmount != first.ItemDiscountAmount ||
		second.BillDiscountAmount != first.BillDiscountAmount ||
		second.TotalAmount != first.TotalAmount {
		t.Errorf("recommit aggregates = %v/%v/%v/%v, want identical to %v/%v/%v/%v",
			second.Subtotal, second.ItemDiscountAmount, second.BillDiscountAmount, second.TotalAmount,
			first.Subtotal, first.ItemDiscountAmount, first.BillDiscountAmount, first.TotalAmount)
	}

	// Delete plus identical recommit nets out: stock and ledger match
	// the state right after the first commit.
	var gotProduct entity.Product
	db.First(&gotProduct, product.ID)
	if gotProduct.Stock != 8 {
		t.Errorf("stock = %d, want 8", gotProduct.Stock)
	}

	var gotCustomer entity.Customer
	db.First(&gotCustomer, customer.ID)
	if gotCustomer.TotalPurchases != first.TotalAmount {
		t.Errorf("total purchases = %v, want %v", gotCustomer.TotalPurchases, first.TotalAmount)
	}
}

func TestCommitBillRejectsBadInput(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	product := seedProduct(t, db, "Tea 250g", 80, 10)
	customer := seedCustomer(t, db, "Lata Kirana")

	tests := []struct {
		name     string
		input    *BillInput
		wantCode int
	}{
		{
			"unknown customer",
			&BillInput{CustomerID: 9999, Items: []CartItemInput{{ProductID: product.ID, Quantity: 1}}},
			http.StatusNotFound,
		},
		{
			"unknown product",
			&BillInput{CustomerID: customer.ID, Items: []CartItemInput{{ProductID: 9999, Quantity: 1}}},
			http.StatusNotFound,
		},
		{
			"empty cart",
			&BillInput{CustomerID: customer.ID},
			http.StatusUnprocessableEntity,
		},
		{
			"bad billing date",
			&BillInput{CustomerID: customer.ID, BillingDate: "15-03-2026", Items: []CartItemInput{{ProductID: product.ID, Quantity: 1}}},
			http.StatusUnprocessableEntity,
		},
		{
			"bad bill type",
			&BillInput{CustomerID: customer.ID, BillType: "Loan", Items: []CartItemInput{{ProductID: product.ID, Quantity: 1}}},
			http.StatusUnprocessableEntity,
		},
		{
			"bill discount above 100",
			&BillInput{CustomerID: customer.ID, BillDiscountPercent: 101, Items: []CartItemInput{{ProductID: product.ID, Quantity: 1}}},
			http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CommitBill(context.Background(), tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if appErr := apperror.GetAppError(err); appErr.Code != tt.wantCode {
				t.Errorf("error code = %d, want %d", appErr.Code, tt.wantCode)
			}
		})
	}
}

func TestUpdateBillAdjustsStockAndLedgerByDelta(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	product := seedProduct(t, db, "Wheat Flour 10kg", 100, 10)
	customer := seedCustomer(t, db, "Meena Mart")

	bill, err := svc.CommitBill(context.Background(), &BillInput{
		CustomerID:          customer.ID,
		BillDiscountPercent: 5,
		Items:               []CartItemInput{{ProductID: product.ID, Quantity: 2, DiscountPercent: 10}},
	})
	if err != nil {
		t.Fatalf("CommitBill: %v", err)
	}

	updated, err := svc.UpdateBill(context.Background(), bill.ID, &BillInput{
		CustomerID:          customer.ID,
		BillDiscountPercent: 5,
		Items:               []CartItemInput{{ProductID: product.ID, Quantity: 3, DiscountPercent: 10}},
	})
	if err != nil {
		t.Fatalf("UpdateBill: %v", err)
	}

	if updated.BillNo != bill.BillNo {
		t.Errorf("bill no changed from %q to %q", bill.BillNo, updated.BillNo)
	}
	if updated.TotalAmount != 256.5 {
		t.Errorf("total = %v, want 256.5", updated.TotalAmount)
	}
	if len(updated.Items) != 1 || updated.Items[0].Quantity != 3 {
		t.Fatalf("items = %+v, want one line with quantity 3", updated.Items)
	}

	var gotProduct entity.Product
	db.First(&gotProduct, product.ID)
	if gotProduct.Stock != 7 {
		t.Errorf("stock = %d, want 7 (one more unit consumed)", gotProduct.Stock)
	}

	var gotCustomer entity.Customer
	db.First(&gotCustomer, customer.ID)
	if gotCustomer.TotalPurchases != 256.5 {
		t.Errorf("total purchases = %v, want 256.5", gotCustomer.TotalPurchases)
	}
}

func TestUpdateBillSwapsProduct(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	old := seedProduct(t, db, "Salt 1kg", 20, 10)
	replacement := seedProduct(t, db, "Rock Salt 1kg", 30, 10)
	customer := seedCustomer(t, db, "Gupta Traders")

	bill, err := svc.CommitBill(context.Background(), &BillInput{
		CustomerID: customer.ID,
		Items:      []CartItemInput{{ProductID: old.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CommitBill: %v", err)
	}

	if _, err := svc.UpdateBill(context.Background(), bill.ID, &BillInput{
		CustomerID: customer.ID,
		Items:      []CartItemInput{{ProductID: replacement.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("UpdateBill: %v", err)
	}

	var gotOld, gotNew entity.Product
	db.First(&gotOld, old.ID)
	db.First(&gotNew, replacement.ID)
	if gotOld.Stock != 10 {
		t.Errorf("old product stock = %d, want restored 10", gotOld.Stock)
	}
	if gotNew.Stock != 9 {
		t.Errorf("replacement stock = %d, want 9", gotNew.Stock)
	}

	var gotCustomer entity.Customer
	db.First(&gotCustomer, customer.ID)
	if gotCustomer.TotalPurchases != 30 {
		t.Errorf("total purchases = %v, want 30", gotCustomer.TotalPurchases)
	}
}

func TestUpdateBillMovesLedgerBetweenCustomers(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	product := seedProduct(t, db, "Dal 1kg", 120, 10)
	first := seedCustomer(t, db, "First Buyer")
	second := seedCustomer(t, db, "Second Buyer")

	bill, err := svc.CommitBill(context.Background(), &BillInput{
		CustomerID: first.ID,
		Items:      []CartItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CommitBill: %v", err)
	}

	updated, err := svc.UpdateBill(context.Background(), bill.ID, &BillInput{
		CustomerID: second.ID,
		Items:      []CartItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("UpdateBill: %v", err)
	}

	if updated.CustomerID != second.ID || updated.CustomerName != "Second Buyer" {
		t.Errorf("bill customer = %d %q, want reassigned to Second Buyer", updated.CustomerID, updated.CustomerName)
	}

	var gotFirst, gotSecond entity.Customer
	db.First(&gotFirst, first.ID)
	db.First(&gotSecond, second.ID)
	if gotFirst.TotalPurchases != 0 {
		t.Errorf("first customer total = %v, want 0", gotFirst.TotalPurchases)
	}
	if gotSecond.TotalPurchases != 240 {
		t.Errorf("second customer total = %v, want 240", gotSecond.TotalPurchases)
	}
	// The customer gaining the bill gets a last purchase date too.
	if gotSecond.LastPurchase == nil || *gotSecond.LastPurchase != "2026-03-15" {
		t.Errorf("second customer last purchase = %v, want 2026-03-15", gotSecond.LastPurchase)
	}
}

func TestUpdateBillNotFound(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	product := seedProduct(t, db, "Jaggery 1kg", 60, 10)
	customer := seedCustomer(t, db, "Any Buyer")

	_, err := svc.UpdateBill(context.Background(), 9999, &BillInput{
		CustomerID: customer.ID,
		Items:      []CartItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected not found, got nil")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != http.StatusNotFound {
		t.Errorf("error code = %d, want 404", appErr.Code)
	}
}

func TestDeleteBillRestoresStockAndReversesLedger(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	product := seedProduct(t, db, "Mustard Oil 1L", 180, 10)
	customer := seedCustomer(t, db, "Verma General Store")

	bill, err := svc.CommitBill(context.Background(), &BillInput{
		CustomerID: customer.ID,
		Items:      []CartItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("CommitBill: %v", err)
	}

	if err := svc.DeleteBill(context.Background(), bill.ID); err != nil {
		t.Fatalf("DeleteBill: %v", err)
	}

	var gotProduct entity.Product
	db.First(&gotProduct, product.ID)
	if gotProduct.Stock != 10 {
		t.Errorf("stock = %d, want restored 10", gotProduct.Stock)
	}

	var gotCustomer entity.Customer
	db.First(&gotCustomer, customer.ID)
	if gotCustomer.TotalPurchases != 0 {
		t.Errorf("total purchases = %v, want 0", gotCustomer.TotalPurchases)
	}

	var itemCount int64
	db.Model(&entity.BillItem{}).Where("bill_id = ?", bill.ID).Count(&itemCount)
	if itemCount != 0 {
		t.Errorf("orphaned items = %d, want 0", itemCount)
	}

	if _, err := svc.GetBill(context.Background(), bill.ID); err == nil {
		t.Error("expected not found after delete, got nil")
	}
}

func TestDeleteBillFloorsLedgerAtZero(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	product := seedProduct(t, db, "Besan 1kg", 90, 10)
	customer := seedCustomer(t, db, "Drifted Ledger")

	bill, err := svc.CommitBill(context.Background(), &BillInput{
		CustomerID: customer.ID,
		Items:      []CartItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CommitBill: %v", err)
	}

	// Simulate ledger drift smaller than the bill being reversed.
	if err := db.Model(&entity.Customer{}).Where("id = ?", customer.ID).
		Update("total_purchases", 100).Error; err != nil {
		t.Fatalf("drift ledger: %v", err)
	}

	if err := svc.DeleteBill(context.Background(), bill.ID); err != nil {
		t.Fatalf("DeleteBill: %v", err)
	}

	var gotCustomer entity.Customer
	db.First(&gotCustomer, customer.ID)
	if gotCustomer.TotalPurchases != 0 {
		t.Errorf("total purchases = %v, want floored 0", gotCustomer.TotalPurchases)
	}
}

func TestDeleteBillNotFound(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)

	err := svc.DeleteBill(context.Background(), 9999)
	if err == nil {
		t.Fatal("expected not found, got nil")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != http.StatusNotFound {
		t.Errorf("error code = %d, want 404", appErr.Code)
	}
}

func TestListBillsFiltersAndOrders(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newBillingService(t, db)
	product := seedProduct(t, db, "Poha 500g", 35, 100)
	asha := seedCustomer(t, db, "Asha Traders")
	ravi := seedCustomer(t, db, "Ravi Stores")

	for _, cid := range []uint{asha.ID, ravi.ID, asha.ID} {
		if _, err := svc.CommitBill(context.Background(), &BillInput{
			CustomerID: cid,
			Items:      []CartItemInput{{ProductID: product.ID, Quantity: 1}},
		}); err != nil {
			t.Fatalf("CommitBill: %v", err)
		}
	}

	all, err := svc.ListBills(context.Background(), &repository.BillFilterParams{
		Pagination: pagination.DefaultPagination(),
	})
	if err != nil {
		t.Fatalf("ListBills: %v", err)
	}
	if len(all.Items) != 3 {
		t.Fatalf("bills = %d, want 3", len(all.Items))
	}
	// Most recent first.
	if all.Items[0].ID < all.Items[1].ID || all.Items[1].ID < all.Items[2].ID {
		t.Errorf("bills not ordered newest first: %d, %d, %d", all.Items[0].ID, all.Items[1].ID, all.Items[2].ID)
	}

	filtered, err := svc.ListBills(context.Background(), &repository.BillFilterParams{
		Pagination: pagination.DefaultPagination(),
		Search:     "Ravi",
	})
	if err != nil {
		t.Fatalf("ListBills search: %v", err)
	}
	if len(filtered.Items) != 1 || filtered.Items[0].CustomerName != "Ravi Stores" {
		t.Errorf("search result = %+v, want the single Ravi Stores bill", filtered.Items)
	}
}
