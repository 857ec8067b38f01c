package models

// Contributor is the unified read view over platform users and guests.
// It is never persisted; it is computed on read by merging both sources.
// IsUser is the discriminator.
type Contributor struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Nicename    string `json:"nicename"`
	URL         string `json:"url"`
	Avatar      string `json:"avatar"` // resolved URL, placeholder when unset
	IsUser      bool   `json:"is_user"`
}

// CompactAssignment is the persisted form of one byline slot: a role id and
// the contributor ids filed under it. A nil role marks an empty slot that
// still occupies its index so the editor's ordering survives a round trip.
type CompactAssignment struct {
	Role         *int64  `json:"role"`
	Contributors []int64 `json:"contributors"`
}

// RoleView is a role prepared for display: same fields as Role but with the
// icon resolved to a URL instead of a media id.
type RoleView struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Nicename         string `json:"nicename"`
	Prefix           string `json:"prefix"`
	AvatarVisibility bool   `json:"avatar_visibility"`
	Icon             string `json:"icon"`
}

// RoleAssignment is the expanded form of one byline slot, derived from the
// compact form plus current role/contributor state. Never persisted.
type RoleAssignment struct {
	Role         *RoleView     `json:"role"`
	Contributors []Contributor `json:"contributors"`
}
