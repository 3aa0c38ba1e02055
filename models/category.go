package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID       string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name     string    `gorm:"size:128;unique;not null" json:"name"`
	Type     string    `gorm:"size:64;not null" json:"type"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
