package models

import (
	"time"
)

// Post is the content item bylines attach to. Only the fields the byline
// layer relies on are modeled; the rest of the post lives elsewhere.
type Post struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	AuthorID  int64     `gorm:"not null;index" json:"author_id"` // platform account that created the post
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostMeta is one key/value row scoped to a post. The byline layer owns
// two keys: MetaRoleAssignments and MetaContributorIDs.
type PostMeta struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	PostID int64  `gorm:"not null;uniqueIndex:idx_post_meta_key" json:"post_id"`
	Key    string `gorm:"size:100;not null;uniqueIndex:idx_post_meta_key" json:"key"`
	Value  string `gorm:"type:text" json:"value"`
}

// Post meta keys owned by this service.
const (
	// MetaRoleAssignments holds the compact assignment array as JSON:
	// [{"role":1,"contributors":[3,17]}, ...]. It is the single source of
	// truth for a post's bylines.
	MetaRoleAssignments = "role_assignments"
	// MetaContributorIDs holds the comma-joined union of contributor ids,
	// derived from MetaRoleAssignments on every write. It only exists to
	// make "posts by contributor X" cheap.
	MetaContributorIDs = "contributor_ids"
)
