package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem is a frozen snapshot of a cart line taken at order creation. Later
// product edits never touch it; the product id remains only for analytics.
type OrderItem struct {
	ID          string  `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID     string  `gorm:"type:char(36);not null;index" json:"orderID"`
	ProductID   string  `gorm:"type:char(36);not null" json:"productID"`
	ProductName string  `gorm:"size:255" json:"productName"`
	Thumbnail   string  `gorm:"size:512" json:"thumbnail"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unitPrice"`
	TotalPrice  float64 `gorm:"not null" json:"totalPrice"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
