package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          string         `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	SKU         string         `gorm:"column:sku;size:64;unique" json:"sku"`
	Description string         `gorm:"type:text" json:"description"`
	Brand       string         `gorm:"size:128" json:"brand"`
	Price       float64        `gorm:"not null" json:"price"`
	Quantity    int            `gorm:"not null;default:0" json:"quantity"`
	Thumbnail   string         `gorm:"size:512" json:"thumbnail"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	CategoryID  string         `gorm:"type:char(36);not null" json:"categoryID"`
	IsFeatured  bool           `gorm:"not null;default:false" json:"isFeatured"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type ProductImage struct {
	ID        string `gorm:"type:char(36);primaryKey" json:"-"`
	ProductID string `gorm:"type:char(36);not null;index" json:"-"`
	URL       string `gorm:"size:512;not null" json:"url"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
