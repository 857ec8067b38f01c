package models

// Media is a stored asset referenced by guest avatars and role icons.
// Variants are pre-generated files next to Path, named by size.
type Media struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Path string `gorm:"not null" json:"path"`
}
