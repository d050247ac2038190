package models

import (
	"time"
)

// Role represents a realm or client role. An empty ClientID marks a realm
// role; a non-empty ClientID scopes the role to that client. Names are
// unique within {realm, client} so a realm role and a client role may share
// a name without conflict.
type Role struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"not null;uniqueIndex:idx_roles_scope_name" json:"name"`
	Description string    `json:"description,omitempty"`
	ClientID    string    `gorm:"uniqueIndex:idx_roles_scope_name;index" json:"client_id,omitempty"`
	FederatedID *string   `gorm:"uniqueIndex" json:"federated_id,omitempty"`
	RealmID     string    `gorm:"not null;uniqueIndex:idx_roles_scope_name;index" json:"realm_id"`

	// Relationships
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// IsClientRole reports whether the role is scoped to a client.
func (r *Role) IsClientRole() bool {
	return r.ClientID != ""
}
