package federation

// The bridge exposes one narrow capability interface per concern instead of
// a single monolithic provider type. A concrete provider implements every
// capability it supports; the consumer runtime type-asserts for the ones it
// needs.

// UserLookup resolves users by ID, username, or email. Absence is a nil
// model with a nil error, including malformed ID input.
type UserLookup interface {
	UserByID(realmID, id string) (UserModel, error)
	UserByUsername(realmID, username string) (UserModel, error)
	UserByEmail(realmID, email string) (UserModel, error)
}

// UserQuery covers realm-scoped user search and listing.
type UserQuery interface {
	SearchUsers(realmID string, params SearchParams) ([]UserModel, error)
	UsersCount(realmID string) (int64, error)
	GroupMembers(realmID string, group GroupModel, params SearchParams) ([]UserModel, error)
}

// UserRegistration covers user creation and removal.
type UserRegistration interface {
	AddUser(realmID, username string) (UserModel, error)
	RemoveUser(realmID, id string) (bool, error)
}

// UserBulkUpdate covers the bulk mutation and pre-removal cleanup protocol
// the consumer invokes before removing objects it owns.
type UserBulkUpdate interface {
	GrantRoleToAllUsers(realmID string, role RoleModel) error
	RemoveRoleFromAllUsers(realmID string, role RoleModel) error
	RemoveRealm(realmID string) error
	RemoveGroup(realmID string, group GroupModel) error
	RemoveRole(realmID string, role RoleModel) error
}

// GroupLookup resolves groups by ID or by name within a parent scope.
type GroupLookup interface {
	GroupByID(realmID, id string) (GroupModel, error)
	GroupByName(realmID string, parent GroupModel, name string) (GroupModel, error)
}

// GroupQuery covers realm-scoped group search and listing.
type GroupQuery interface {
	SearchGroups(realmID string, params SearchParams) ([]GroupModel, error)
	TopLevelGroups(realmID string, params SearchParams) ([]GroupModel, error)
	GroupsByIDsOrSearch(realmID string, ids []string, search *string, params SearchParams) ([]GroupModel, error)
}

// GroupMutation covers group creation, re-parenting, and deletion.
type GroupMutation interface {
	AddGroup(realmID, name string, parent GroupModel) (GroupModel, error)
	MoveGroup(realmID string, group GroupModel, newParent GroupModel) error
	DeleteGroup(realmID, id string) (bool, error)
}

// GroupBulkUpdate covers group-side pre-removal cleanup.
type GroupBulkUpdate interface {
	RemoveRealm(realmID string) error
	RemoveRole(realmID string, role RoleModel) error
}

// RoleLookup resolves roles by ID or by natural key within scope.
type RoleLookup interface {
	RoleByID(realmID, id string) (RoleModel, error)
	RealmRole(realmID, name string) (RoleModel, error)
	ClientRole(realmID, clientID, name string) (RoleModel, error)
}

// RoleQuery covers scoped role search.
type RoleQuery interface {
	SearchRoles(realmID string, scope RoleScope, params SearchParams) ([]RoleModel, error)
	RolesByIDsOrSearch(realmID string, ids []string, search *string, params SearchParams) ([]RoleModel, error)
}

// RoleMutation covers role creation and the realm/client-wide deletion
// protocol.
type RoleMutation interface {
	AddRealmRole(realmID, name string) (RoleModel, error)
	AddClientRole(realmID, clientID, name string) (RoleModel, error)
	DeleteRole(realmID, id string) (bool, error)
	DeleteAllRealmRoles(realmID string) error
	DeleteAllClientRoles(realmID, clientID string) error
}
