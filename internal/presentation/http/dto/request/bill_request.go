package request

// BillItemRequest represents one cart entry of a bill request
type BillItemRequest struct {
	ProductID       uint     `json:"product_id" binding:"required"`
	Quantity        int      `json:"quantity" binding:"required,gt=0"`
	Rate            *float64 `json:"rate" binding:"omitempty,min=0"`
	DiscountPercent float64  `json:"discount_percent" binding:"min=0,max=100"`
}

// BillRequest represents a bill commit or update request
type BillRequest struct {
	CustomerID          uint              `json:"customer_id" binding:"required"`
	BillType            string            `json:"bill_type" binding:"omitempty,oneof=Cash Credit"`
	BillingDate         string            `json:"billing_date" binding:"omitempty,datetime=2006-01-02"`
	BillDiscountPercent float64           `json:"bill_discount_percent" binding:"min=0,max=100"`
	Items               []BillItemRequest `json:"items" binding:"required,min=1,dive"`
}

// BillFilterRequest represents bill list filter parameters
type BillFilterRequest struct {
	Search     string `form:"search"`
	CustomerID uint   `form:"customer_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
