package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rkstores/wholesale-api/internal/application/service"
	"github.com/rkstores/wholesale-api/internal/domain/enum"
	"github.com/rkstores/wholesale-api/internal/domain/repository"
	"github.com/rkstores/wholesale-api/internal/presentation/http/dto/request"
	"github.com/rkstores/wholesale-api/internal/presentation/http/dto/response"
	"github.com/rkstores/wholesale-api/pkg/pagination"
)

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billingService *service.BillingService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billingService *service.BillingService) *BillHandler {
	return &BillHandler{billingService: billingService}
}

// List handles listing bills, most recent first
func (h *BillHandler) List(c *gin.Context) {
	var filter request.BillFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}
	if filter.CustomerID != 0 {
		params.CustomerID = &filter.CustomerID
	}

	result, err := h.billingService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// Get handles retrieving a bill with its items
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid bill id")
		return
	}

	bill, err := h.billingService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// Commit handles committing a cart into a bill
func (h *BillHandler) Commit(c *gin.Context) {
	var req request.BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bill, err := h.billingService.CommitBill(c.Request.Context(), billInputFromRequest(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill committed successfully", bill)
}

// Update handles replacing a bill's items and aggregates
func (h *BillHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid bill id")
		return
	}

	var req request.BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bill, err := h.billingService.UpdateBill(c.Request.Context(), id, billInputFromRequest(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill updated successfully", bill)
}

// Delete handles deleting a bill, restoring stock and reversing the
// customer ledger entry
func (h *BillHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid bill id")
		return
	}

	if err := h.billingService.DeleteBill(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func billInputFromRequest(req *request.BillRequest) *service.BillInput {
	items := make([]service.CartItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CartItemInput{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			Rate:            item.Rate,
			DiscountPercent: item.DiscountPercent,
		})
	}
	return &service.BillInput{
		CustomerID:          req.CustomerID,
		BillType:            enum.BillType(req.BillType),
		BillingDate:         req.BillingDate,
		BillDiscountPercent: req.BillDiscountPercent,
		Items:               items,
	}
}
