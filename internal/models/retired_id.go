package models

import "time"

// RetiredID is one row of the append-only never-reuse log. Once a guest or
// a platform user with a given id is deleted, the id lands here and the
// allocator will never hand it out again.
type RetiredID struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
