package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/rkstores/wholesale-api/internal/domain/entity"
	infra "github.com/rkstores/wholesale-api/internal/infrastructure/repository"
	"github.com/rkstores/wholesale-api/pkg/apperror"
)

func TestCreateCustomerValidation(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewCustomerService(infra.NewCustomerRepository(db), infra.NewBillRepository(db))

	tests := []struct {
		name  string
		input *CustomerInput
	}{
		{"missing name", &CustomerInput{Phone: "9000000001"}},
		{"missing phone", &CustomerInput{Name: "Asha Traders"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(context.Background(), tt.input)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if appErr := apperror.GetAppError(err); appErr.Code != http.StatusUnprocessableEntity {
				t.Errorf("error code = %d, want 422", appErr.Code)
			}
		})
	}
}

func TestCustomerCRUDRoundTrip(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewCustomerService(infra.NewCustomerRepository(db), infra.NewBillRepository(db))

	email := "asha@example.com"
	created, err := svc.CreateCustomer(context.Background(), &CustomerInput{
		Name: "Asha Traders", Phone: "9000000001", Email: &email,
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if created.TotalPurchases != 0 || created.LastPurchase != nil {
		t.Errorf("new customer ledger = %v/%v, want zeroed", created.TotalPurchases, created.LastPurchase)
	}

	updated, err := svc.UpdateCustomer(context.Background(), created.ID, &CustomerInput{
		Name: "Asha Wholesale", Phone: "9000000002",
	})
	if err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}
	if updated.Name != "Asha Wholesale" || updated.Phone != "9000000002" {
		t.Errorf("updated = %+v, want renamed customer", updated)
	}

	if err := svc.DeleteCustomer(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	if _, err := svc.GetCustomer(context.Background(), created.ID); err == nil {
		t.Error("expected not found after delete, got nil")
	}
}

func TestSearchCustomersRequiresFragment(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewCustomerService(infra.NewCustomerRepository(db), infra.NewBillRepository(db))

	_, err := svc.SearchCustomers(context.Background(), "")
	if err == nil {
		t.Fatal("expected bad request, got nil")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != http.StatusBadRequest {
		t.Errorf("error code = %d, want 400", appErr.Code)
	}
}

func TestSearchCustomersByNameFragment(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewCustomerService(infra.NewCustomerRepository(db), infra.NewBillRepository(db))
	seedCustomer(t, db, "Ravi Stores")
	seedCustomer(t, db, "Ravindra Traders")
	seedCustomer(t, db, "Meena Mart")

	got, err := svc.SearchCustomers(context.Background(), "ravi")
	if err != nil {
		t.Fatalf("SearchCustomers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("matches = %d, want 2", len(got))
	}
	// Name order.
	if got[0].Name != "Ravi Stores" || got[1].Name != "Ravindra Traders" {
		t.Errorf("order = %q, %q, want name ascending", got[0].Name, got[1].Name)
	}
}

func TestLastPurchaseAmount(t *testing.T) {
	db := setupServiceTestDB(t)
	customerSvc := NewCustomerService(infra.NewCustomerRepository(db), infra.NewBillRepository(db))
	billingSvc := newBillingService(t, db)
	product := seedProduct(t, db, "Chana 1kg", 95, 50)
	customer := seedCustomer(t, db, "Lata Kirana")

	// Never billed: no amount, no error.
	amount, err := customerSvc.LastPurchaseAmount(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("LastPurchaseAmount: %v", err)
	}
	if amount != nil {
		t.Errorf("amount = %v, want nil for unbilled customer", *amount)
	}

	for _, qty := range []int{1, 3} {
		if _, err := billingSvc.CommitBill(context.Background(), &BillInput{
			CustomerID: customer.ID,
			Items:      []CartItemInput{{ProductID: product.ID, Quantity: qty}},
		}); err != nil {
			t.Fatalf("CommitBill: %v", err)
		}
	}

	amount, err = customerSvc.LastPurchaseAmount(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("LastPurchaseAmount: %v", err)
	}
	if amount == nil || *amount != 285 {
		t.Errorf("amount = %v, want most recent bill total 285", amount)
	}

	if _, err := customerSvc.LastPurchaseAmount(context.Background(), 9999); err == nil {
		t.Error("expected not found for unknown customer, got nil")
	}
}

func TestListContactsMergesAndSorts(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewContactService(infra.NewCustomerRepository(db), infra.NewSupplierRepository(db))
	seedCustomer(t, db, "Meena Mart")
	seedCustomer(t, db, "Asha Traders")
	supplier := &entity.Supplier{Name: "Bharat Distributors", Phone: "9000000009", Company: "Bharat Agro"}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	contacts, err := svc.ListContacts(context.Background(), "")
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(contacts) != 3 {
		t.Fatalf("contacts = %d, want 3", len(contacts))
	}

	wantOrder := []string{"Asha Traders", "Bharat Distributors", "Meena Mart"}
	for i, want := range wantOrder {
		name := contactName(contacts[i])
		if name != want {
			t.Errorf("contacts[%d] = %q, want %q", i, name, want)
		}
	}
	if contacts[1].Type != "supplier" {
		t.Errorf("contacts[1].Type = %q, want supplier", contacts[1].Type)
	}
}

func TestListContactsReturnsWholeDirectory(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewContactService(infra.NewCustomerRepository(db), infra.NewSupplierRepository(db))

	const customerCount = 120
	for i := 0; i < customerCount; i++ {
		c := &entity.Customer{Name: fmt.Sprintf("Customer %03d", i), Phone: "9000000001"}
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("seed customer %d: %v", i, err)
		}
	}
	supplier := &entity.Supplier{Name: "Zenith Distributors", Phone: "9000000009", Company: "Zenith Agro"}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	contacts, err := svc.ListContacts(context.Background(), "")
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(contacts) != customerCount+1 {
		t.Fatalf("contacts = %d, want %d (no truncation)", len(contacts), customerCount+1)
	}
	if contactName(contacts[len(contacts)-1]) != "Zenith Distributors" {
		t.Errorf("last contact = %q, want Zenith Distributors", contactName(contacts[len(contacts)-1]))
	}
}
