package models

import (
	"time"
)

// User represents a federated user stored in the local relational store.
// FederatedID is the consumer-assigned opaque ID; it stays NULL until the
// consumer first addresses this record through its own ID scheme.
type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Username      string    `gorm:"not null;uniqueIndex:idx_users_realm_username" json:"username"`
	Email         string    `json:"email,omitempty"`
	PasswordHash  string    `json:"-"`
	Locked        bool      `gorm:"default:false" json:"locked"`
	EmailVerified bool      `gorm:"default:false" json:"email_verified"`
	FederatedID   *string   `gorm:"uniqueIndex" json:"federated_id,omitempty"`
	RealmID       string    `gorm:"not null;uniqueIndex:idx_users_realm_username;index" json:"realm_id"`

	// Relationships
	Roles   []Role       `gorm:"many2many:user_roles" json:"roles,omitempty"`
	Groups  []Group      `gorm:"many2many:user_groups" json:"groups,omitempty"`
	Profile *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// Enabled reports whether the user may log in. The consumer models this as
// an "enabled" flag; locally it is the inverse of the locked column.
func (u *User) Enabled() bool {
	return !u.Locked
}
