package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type Role struct {
	ID   string `gorm:"type:char(36);primaryKey" json:"id"`
	Name string `gorm:"size:20;unique;not null" json:"name"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// rolePrivilege ranks roles so the primary role is deterministic.
var rolePrivilege = map[string]int{
	RoleAdmin: 2,
	RoleUser:  1,
}
