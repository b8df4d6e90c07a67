package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rkstores/wholesale-api/internal/application/service"
	"github.com/rkstores/wholesale-api/internal/presentation/http/dto/request"
	"github.com/rkstores/wholesale-api/internal/presentation/http/dto/response"
	"github.com/rkstores/wholesale-api/pkg/pagination"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	search := c.Query("search")

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Search handles case-insensitive substring search by name
func (h *CustomerHandler) Search(c *gin.Context) {
	fragment := c.Query("q")
	customers, err := h.customerService.SearchCustomers(c.Request.Context(), fragment)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customers retrieved successfully", customers)
}

// Get handles retrieving a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Update handles updating a customer's contact fields
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	var req request.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &service.CustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles deleting a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// LastPurchase handles retrieving the amount of the customer's most
// recent bill
func (h *CustomerHandler) LastPurchase(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	amount, err := h.customerService.LastPurchaseAmount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Last purchase retrieved successfully", gin.H{"amount": amount})
}

// ContactHandler serves the merged customer and supplier directory
type ContactHandler struct {
	contactService *service.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// List handles listing the merged contact directory
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contactService.ListContacts(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Contacts retrieved successfully", contacts)
}
