package models

import (
	"time"
)

// Group represents a group in the local store. Groups form a tree via the
// self-referencing ParentID; ParentPath is the materialized slash-separated
// path of ancestor names ("" for top-level groups).
type Group struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"not null;uniqueIndex:idx_groups_scope_name" json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    *uint     `gorm:"uniqueIndex:idx_groups_scope_name" json:"parent_id,omitempty"`
	ParentPath  string    `json:"parent_path,omitempty"`
	FederatedID *string   `gorm:"uniqueIndex" json:"federated_id,omitempty"`
	RealmID     string    `gorm:"not null;uniqueIndex:idx_groups_scope_name;index" json:"realm_id"`

	// Relationships
	Parent *Group `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Roles  []Role `gorm:"many2many:group_roles" json:"roles,omitempty"`
}
