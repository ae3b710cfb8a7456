package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an identity record in the admin-managed user directory.
type User struct {
	ID           string     `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string     `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Roles        []string   `json:"roles" gorm:"serializer:json;type:json"`
	PublicKey    string     `json:"publicKey,omitempty" gorm:"size:64"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    string     `json:"createdBy" gorm:"type:char(36)"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`
	UpdatedBy    string     `json:"updatedBy,omitempty" gorm:"type:char(36)"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
