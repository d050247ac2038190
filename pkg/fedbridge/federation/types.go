// Package federation defines the contracts between the consumer runtime and
// the bridge: the consumer-shaped model interfaces the adapters implement,
// and the capability interfaces the storage providers satisfy.
package federation

// UserModel is the consumer-shaped view of a user. Setters persist
// immediately; implementations report persistence failures, never absence.
type UserModel interface {
	ID() string
	Username() string
	SetUsername(username string) error
	Email() string
	SetEmail(email string) error
	IsEnabled() bool
	SetEnabled(enabled bool) error
	IsEmailVerified() bool
	SetEmailVerified(verified bool) error

	// FirstAttribute returns "" for unset attributes; a missing profile row
	// is indistinguishable from empty values.
	FirstAttribute(name string) string
	SetAttribute(name, value string) error
}

// GroupModel is the consumer-shaped view of a group. Consumer-originated
// groups carry only these visible fields; local adapters expose more.
type GroupModel interface {
	ID() string
	Name() string
	Description() string
	// ParentID is the consumer ID of the parent group, "" for top level.
	ParentID() string
}

// RoleModel is the consumer-shaped view of a role.
type RoleModel interface {
	ID() string
	Name() string
	Description() string
	// ClientID is "" for realm roles.
	ClientID() string
	IsClientRole() bool
}

// AttributeStore is the generic externally-stored attribute mechanism user
// adapters delegate to for attribute names not mapped onto profile columns.
// A nil store is legal; unmapped attributes then read as empty.
type AttributeStore interface {
	FirstAttribute(userID uint, name string) string
	SetAttribute(userID uint, name, value string) error
}
