package models

// DefaultRoleID is the fixed, undeletable role seeded at install time.
const DefaultRoleID int64 = 1

// Role is a named contributor category with presentation metadata.
type Role struct {
	ID               int64  `gorm:"primaryKey" json:"id"`
	Name             string `gorm:"not null" json:"name"`
	Nicename         string `gorm:"uniqueIndex;not null" json:"nicename"`
	Prefix           string `json:"prefix"` // display text shown before the contributor names
	AvatarVisibility bool   `gorm:"default:false" json:"avatar_visibility"`
	Icon             *int64 `json:"icon"` // media id, optional
}
