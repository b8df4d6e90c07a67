package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rkstores/wholesale-api/internal/application/service"
	"github.com/rkstores/wholesale-api/internal/domain/repository"
	"github.com/rkstores/wholesale-api/internal/presentation/http/dto/request"
	"github.com/rkstores/wholesale-api/internal/presentation/http/dto/response"
	"github.com/rkstores/wholesale-api/pkg/pagination"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products with filtering and pagination
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		Category:  filter.Category,
		LowStock:  filter.LowStock,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Get handles retrieving a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.ProductInput{
		Name:          req.Name,
		MRP:           req.MRP,
		SellPrice:     req.SellPrice,
		PurchasePrice: req.PurchasePrice,
		Stock:         req.Stock,
		Unit:          req.Unit,
		Category:      req.Category,
		MinStock:      req.MinStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Update handles a full overwrite of a product's mutable fields
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}

	var req request.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &service.ProductInput{
		Name:          req.Name,
		MRP:           req.MRP,
		SellPrice:     req.SellPrice,
		PurchasePrice: req.PurchasePrice,
		Stock:         req.Stock,
		Unit:          req.Unit,
		Category:      req.Category,
		MinStock:      req.MinStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// LowStock handles listing products at or below their reorder threshold
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// AdjustStock handles setting a product's stock to an absolute value
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}

	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), id, req.Stock)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", product)
}
