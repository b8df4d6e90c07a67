package entity

import (
	"time"
)

// Product represents a product in the inventory. Monetary fields carry
// two-decimal values; Stock is the running quantity on hand and must
// never go negative.
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	MRP           float64   `gorm:"column:mrp;not null" json:"mrp"`
	SellPrice     float64   `gorm:"not null" json:"sell_price"`
	PurchasePrice float64   `gorm:"not null" json:"purchase_price"`
	Stock         int       `gorm:"not null;default:0" json:"stock"`
	Unit          string    `gorm:"size:50;not null" json:"unit"`
	Category      string    `gorm:"size:100;not null" json:"category"`
	MinStock      int       `gorm:"default:0" json:"min_stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the product is at or below its reorder threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
