package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rkstores/wholesale-api/internal/application/service"
	"github.com/rkstores/wholesale-api/internal/presentation/http/dto/request"
	"github.com/rkstores/wholesale-api/internal/presentation/http/dto/response"
	"github.com/rkstores/wholesale-api/pkg/pagination"
)

// SupplierHandler handles supplier-related HTTP requests
type SupplierHandler struct {
	supplierService *service.SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierService *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// List handles listing suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	search := c.Query("search")

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.supplierService.ListSuppliers(c.Request.Context(), params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Suppliers retrieved successfully", result)
}

// Get handles retrieving a single supplier
func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid supplier id")
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier retrieved successfully", supplier)
}

// Create handles creating a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	var req request.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), &service.SupplierInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Company:  req.Company,
		Products: req.Products,
		Email:    req.Email,
		Address:  req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Supplier created successfully", supplier)
}

// Update handles updating a supplier
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid supplier id")
		return
	}

	var req request.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), id, &service.SupplierInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Company:  req.Company,
		Products: req.Products,
		Email:    req.Email,
		Address:  req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier updated successfully", supplier)
}

// Delete handles deleting a supplier
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid supplier id")
		return
	}

	if err := h.supplierService.DeleteSupplier(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
