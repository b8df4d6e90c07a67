package entity

import (
	"time"

	"github.com/rkstores/wholesale-api/internal/domain/enum"
)

// Bill represents a committed invoice. CustomerName is a snapshot
// taken at creation time and is intentionally not re-synced if the
// customer is later renamed, so historical invoices stay legible.
// Invariant: TotalAmount == Subtotal - ItemDiscountAmount - BillDiscountAmount
// to the cent.
type Bill struct {
	ID                  uint          `gorm:"primaryKey" json:"id"`
	BillNo              string        `gorm:"size:100;unique;not null" json:"bill_no"`
	CustomerID          uint          `gorm:"not null;index" json:"customer_id"`
	CustomerName        string        `gorm:"size:255;not null" json:"customer_name"`
	BillType            enum.BillType `gorm:"size:20;default:'Cash'" json:"bill_type"`
	BillingDate         string        `gorm:"size:10;not null" json:"billing_date"`
	Subtotal            float64       `gorm:"not null;default:0" json:"subtotal"`
	ItemDiscountAmount  float64       `gorm:"not null;default:0" json:"item_discount_amount"`
	BillDiscountPercent float64       `gorm:"not null;default:0" json:"bill_discount_percent"`
	BillDiscountAmount  float64       `gorm:"not null;default:0" json:"bill_discount_amount"`
	TotalAmount         float64       `gorm:"not null;default:0" json:"total_amount"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`

	// Relationships
	Customer Customer   `gorm:"foreignKey:CustomerID" json:"-"`
	Items    []BillItem `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem represents a line item on a bill. ItemName is a snapshot of
// the product name at billing time and survives product deletion;
// ProductID is kept for stock bookkeeping on edits and deletions and
// goes nil when the product is removed from the catalog.
type BillItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	BillID          uint    `gorm:"not null;index" json:"bill_id"`
	ProductID       *uint   `gorm:"index" json:"product_id,omitempty"`
	ItemName        string  `gorm:"size:255;not null" json:"item_name"`
	Quantity        int     `gorm:"not null" json:"quantity"`
	Rate            float64 `gorm:"not null" json:"rate"`
	FinalRate       float64 `gorm:"not null" json:"final_rate"`
	DiscountPercent float64 `gorm:"not null;default:0" json:"discount_percent"`
	DiscountAmount  float64 `gorm:"not null;default:0" json:"discount_amount"`
	Total           float64 `gorm:"not null" json:"total"`

	// Relationships
	Bill Bill `gorm:"foreignKey:BillID" json:"-"`
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
