package request

// ProductRequest represents a product create or full-update request
type ProductRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=255"`
	MRP           float64 `json:"mrp" binding:"min=0"`
	SellPrice     float64 `json:"sell_price" binding:"min=0"`
	PurchasePrice float64 `json:"purchase_price" binding:"min=0"`
	Stock         int     `json:"stock" binding:"min=0"`
	Unit          string  `json:"unit" binding:"required,max=50"`
	Category      string  `json:"category" binding:"required,max=100"`
	MinStock      int     `json:"min_stock" binding:"min=0"`
}

// AdjustStockRequest represents an absolute stock adjustment
type AdjustStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
