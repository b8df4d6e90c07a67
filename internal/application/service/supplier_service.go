package service

import (
	"context"

	"github.com/rkstores/wholesale-api/internal/domain/entity"
	"github.com/rkstores/wholesale-api/internal/domain/repository"
	"github.com/rkstores/wholesale-api/pkg/apperror"
	"github.com/rkstores/wholesale-api/pkg/pagination"
)

// SupplierService handles supplier directory operations
type SupplierService struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo repository.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// SupplierInput represents the fields of a supplier create or update
type SupplierInput struct {
	Name     string
	Phone    string
	Company  string
	Products string
	Email    *string
	Address  *string
}

func (in *SupplierInput) validate() error {
	var fieldErrors []apperror.FieldError
	if in.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if in.Phone == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "phone", Message: "phone is required"})
	}
	if in.Company == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "company", Message: "company is required"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CreateSupplier creates a new supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, input *SupplierInput) (*entity.Supplier, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	supplier := &entity.Supplier{
		Name:     input.Name,
		Phone:    input.Phone,
		Company:  input.Company,
		Products: input.Products,
		Email:    input.Email,
		Address:  input.Address,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uint) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// UpdateSupplier updates a supplier's fields
func (s *SupplierService) UpdateSupplier(ctx context.Context, id uint, input *SupplierInput) (*entity.Supplier, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	supplier.Name = input.Name
	supplier.Phone = input.Phone
	supplier.Company = input.Company
	supplier.Products = input.Products
	supplier.Email = input.Email
	supplier.Address = input.Address

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier deletes a supplier
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uint) error {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return apperror.NewNotFoundError("Supplier")
	}
	return s.supplierRepo.Delete(ctx, id)
}

// ListSuppliers lists suppliers with optional name search
func (s *SupplierService) ListSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Supplier], error) {
	suppliers, total, err := s.supplierRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}
