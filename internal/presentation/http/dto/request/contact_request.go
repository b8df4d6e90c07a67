package request

// CustomerRequest represents a customer create or update request
type CustomerRequest struct {
	Name    string  `json:"name" binding:"required,min=1,max=255"`
	Phone   string  `json:"phone" binding:"required,max=50"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

// SupplierRequest represents a supplier create or update request
type SupplierRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=255"`
	Phone    string  `json:"phone" binding:"required,max=50"`
	Company  string  `json:"company" binding:"required,max=255"`
	Products string  `json:"products"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Address  *string `json:"address"`
}
