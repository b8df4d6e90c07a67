package entity

import (
	"time"
)

// Supplier represents a supplier in the shared contact store.
// Suppliers are independent of billing; Products is a free-text list
// of what the supplier carries.
type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Phone     string    `gorm:"size:50;not null" json:"phone"`
	Email     *string   `gorm:"size:255" json:"email,omitempty"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`
	Company   string    `gorm:"size:255;not null" json:"company"`
	Products  string    `gorm:"type:text" json:"products"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
