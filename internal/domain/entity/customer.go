package entity

import (
	"time"
)

// Customer represents a customer in the shared contact store.
// TotalPurchases is the running sum of finalized bill amounts and
// LastPurchase the date-only day (YYYY-MM-DD) of the most recent bill;
// both are maintained by the billing transaction, not by callers.
type Customer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Phone          string    `gorm:"size:50;not null" json:"phone"`
	Email          *string   `gorm:"size:255" json:"email,omitempty"`
	Address        *string   `gorm:"type:text" json:"address,omitempty"`
	TotalPurchases float64   `gorm:"not null;default:0" json:"total_purchases"`
	LastPurchase   *string   `gorm:"size:10" json:"last_purchase,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships
	Bills []Bill `gorm:"foreignKey:CustomerID" json:"-"`
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
