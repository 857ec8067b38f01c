package models

// Guest is a contributor that is not backed by a platform account.
// IDs are allocated by the id allocator, never by the database, so the
// column is a plain primary key without auto-increment.
type Guest struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Nicename    string `gorm:"uniqueIndex;not null" json:"nicename"`
	Description string `gorm:"type:text" json:"description"`
	Email       string `json:"email"`
	Avatar      *int64 `json:"avatar"` // media id, optional
}
