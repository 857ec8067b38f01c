package models

import (
	"time"
)

// Platform capability levels. Editors may read and edit byline data,
// admins may additionally delete records and change process-wide settings.
const (
	CapabilityUser   = "user"
	CapabilityEditor = "editor"
	CapabilityAdmin  = "admin"
)

type User struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"` // display name
	Nicename    string    `gorm:"uniqueIndex;not null" json:"nicename"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // bcrypt hash
	Description string    `gorm:"size:500" json:"description"`
	Avatar      *int64    `json:"avatar"`                                            // media id, optional
	Capability  string    `gorm:"size:20;default:'user';not null" json:"capability"` // user, editor, admin
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// No DeletedAt for hard delete
}

func (u *User) CanEdit() bool {
	return u.Capability == CapabilityEditor || u.Capability == CapabilityAdmin
}

func (u *User) IsAdmin() bool {
	return u.Capability == CapabilityAdmin
}
