package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem denormalizes the product name, thumbnail and unit price at the time
// the line is added or last updated. TotalPrice is always Quantity * UnitPrice.
type CartItem struct {
	ID          string  `gorm:"type:char(36);primaryKey" json:"id"`
	CartID      string  `gorm:"type:char(36);not null;index" json:"cartID"`
	ProductID   string  `gorm:"type:char(36);not null" json:"productID"`
	ProductName string  `gorm:"size:255" json:"productName"`
	Thumbnail   string  `gorm:"size:512" json:"thumbnail"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unitPrice"`
	TotalPrice  float64 `gorm:"not null" json:"totalPrice"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
