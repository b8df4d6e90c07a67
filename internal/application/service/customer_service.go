package service

import (
	"context"
	"sort"

	"github.com/rkstores/wholesale-api/internal/domain/entity"
	"github.com/rkstores/wholesale-api/internal/domain/repository"
	"github.com/rkstores/wholesale-api/pkg/apperror"
	"github.com/rkstores/wholesale-api/pkg/pagination"
)

// CustomerService handles customer contact and ledger read operations.
// The running purchase total itself is maintained by the billing
// transaction, never mutated here directly.
type CustomerService struct {
	customerRepo repository.CustomerRepository
	billRepo     repository.BillRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, billRepo repository.BillRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, billRepo: billRepo}
}

// CustomerInput represents the fields of a customer create or update
type CustomerInput struct {
	Name    string
	Phone   string
	Email   *string
	Address *string
}

func (in *CustomerInput) validate() error {
	var fieldErrors []apperror.FieldError
	if in.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if in.Phone == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "phone", Message: "phone is required"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CreateCustomer creates a new customer with a zeroed purchase ledger
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomer updates a customer's contact fields. Bills referencing
// the customer keep their name snapshots unchanged.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint, input *CustomerInput) (*entity.Customer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	customer.Name = input.Name
	customer.Phone = input.Phone
	customer.Email = input.Email
	customer.Address = input.Address

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers lists customers with optional name search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// SearchCustomers returns customers whose name contains the fragment,
// ordered by name. An empty fragment is a caller error.
func (s *CustomerService) SearchCustomers(ctx context.Context, fragment string) ([]entity.Customer, error) {
	if fragment == "" {
		return nil, apperror.NewBadRequestError("Search fragment is required")
	}
	return s.customerRepo.SearchByName(ctx, fragment)
}

// LastPurchaseAmount returns the total of the customer's most recent
// bill, or nil when the customer has never been billed.
func (s *CustomerService) LastPurchaseAmount(ctx context.Context, customerID uint) (*float64, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return s.billRepo.LastPurchaseAmount(ctx, customerID)
}

// Contact is a customer or supplier entry in the merged contact view
type Contact struct {
	Type     string           `json:"type"`
	Customer *entity.Customer `json:"customer,omitempty"`
	Supplier *entity.Supplier `json:"supplier,omitempty"`
}

// ContactService merges customers and suppliers into one directory view
type ContactService struct {
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
}

// NewContactService creates a new contact service
func NewContactService(customerRepo repository.CustomerRepository, supplierRepo repository.SupplierRepository) *ContactService {
	return &ContactService{customerRepo: customerRepo, supplierRepo: supplierRepo}
}

// ListContacts returns all customers and suppliers sorted by name.
// An empty search fragment matches every contact, so the merged view
// is never truncated.
func (s *ContactService) ListContacts(ctx context.Context, search string) ([]Contact, error) {
	customers, err := s.customerRepo.SearchByName(ctx, search)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.supplierRepo.SearchByName(ctx, search)
	if err != nil {
		return nil, err
	}

	contacts := make([]Contact, 0, len(customers)+len(suppliers))
	for i := range customers {
		contacts = append(contacts, Contact{Type: "customer", Customer: &customers[i]})
	}
	for i := range suppliers {
		contacts = append(contacts, Contact{Type: "supplier", Supplier: &suppliers[i]})
	}
	sort.Slice(contacts, func(i, j int) bool {
		return contactName(contacts[i]) < contactName(contacts[j])
	})
	return contacts, nil
}

func contactName(c Contact) string {
	if c.Customer != nil {
		return c.Customer.Name
	}
	return c.Supplier.Name
}
