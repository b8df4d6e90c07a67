package service

import (
	"context"

	"github.com/rkstores/wholesale-api/internal/domain/entity"
	"github.com/rkstores/wholesale-api/internal/domain/repository"
	"github.com/rkstores/wholesale-api/pkg/apperror"
	"github.com/rkstores/wholesale-api/pkg/pagination"
)

// ProductService handles product catalog and stock ledger operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductInput represents the fields of a product create or full update
type ProductInput struct {
	Name          string
	MRP           float64
	SellPrice     float64
	PurchasePrice float64
	Stock         int
	Unit          string
	Category      string
	MinStock      int
}

func (in *ProductInput) validate() error {
	var fieldErrors []apperror.FieldError
	if in.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if in.MRP < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "mrp", Message: "mrp must not be negative"})
	}
	if in.SellPrice < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "sell_price", Message: "sell price must not be negative"})
	}
	if in.PurchasePrice < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "purchase_price", Message: "purchase price must not be negative"})
	}
	if in.Stock < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "stock", Message: "stock must not be negative"})
	}
	if in.MinStock < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "min_stock", Message: "min stock must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:          input.Name,
		MRP:           input.MRP,
		SellPrice:     input.SellPrice,
		PurchasePrice: input.PurchasePrice,
		Stock:         input.Stock,
		Unit:          input.Unit,
		Category:      input.Category,
		MinStock:      input.MinStock,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProduct overwrites all mutable fields of a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, input *ProductInput) (*entity.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	product.Name = input.Name
	product.MRP = input.MRP
	product.SellPrice = input.SellPrice
	product.PurchasePrice = input.PurchasePrice
	product.Stock = input.Stock
	product.Unit = input.Unit
	product.Category = input.Category
	product.MinStock = input.MinStock

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct hard-deletes a product. Historical bills keep their
// item name snapshots, so there is no referential check against them.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// SearchProducts returns products whose name contains the fragment
func (s *ProductService) SearchProducts(ctx context.Context, fragment string) ([]entity.Product, error) {
	return s.productRepo.Search(ctx, fragment)
}

// GetLowStockProducts returns products at or below their reorder
// threshold, lowest stock first
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// AdjustStock sets a product's stock to an absolute value. A negative
// value violates the stock invariant and is rejected before any write.
func (s *ProductService) AdjustStock(ctx context.Context, id uint, newStock int) (*entity.Product, error) {
	if newStock < 0 {
		return nil, apperror.NewInvariantViolation("stock cannot go negative")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.UpdateStock(ctx, id, newStock); err != nil {
		return nil, err
	}
	product.Stock = newStock
	return product, nil
}
