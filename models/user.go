package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	Username        string    `gorm:"size:64;unique;not null" json:"username"`
	Fullname        string    `gorm:"size:128" json:"fullname"`
	Email           string    `gorm:"size:128;unique;not null" json:"email"`
	Password        string    `gorm:"size:128;not null" json:"-"`
	Phone           string    `gorm:"size:20" json:"phone"`
	Address         string    `gorm:"size:255" json:"address"`
	IsActive        bool      `gorm:"not null;default:false" json:"isActive"`
	ActivationToken *string   `gorm:"size:64" json:"-"`
	RefreshToken    *string   `gorm:"size:512" json:"-"`
	Roles           []Role    `gorm:"many2many:user_roles" json:"roles"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PrimaryRole picks the highest-privilege role. Users without any granted role
// act as plain users.
func (u *User) PrimaryRole() string {
	best := ""
	for _, role := range u.Roles {
		if rolePrivilege[role.Name] > rolePrivilege[best] {
			best = role.Name
		}
	}
	if best == "" {
		return RoleUser
	}
	return best
}

func (u *User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}
