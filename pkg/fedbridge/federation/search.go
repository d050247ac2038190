package federation

// SearchParams carries the common filter and pagination arguments for
// search/listing operations. Text filtering is case-insensitive substring
// matching unless Exact switches it to case-sensitive equality.
// First <= 0 starts at the beginning; Max <= 0 means no limit. Both are
// independently applicable.
type SearchParams struct {
	Text  string
	Exact bool
	First int
	Max   int
}

// RoleScopeKind selects which slice of the role table a role search covers.
type RoleScopeKind int

const (
	// ScopeAll matches realm and client roles alike.
	ScopeAll RoleScopeKind = iota
	// ScopeRealm matches realm roles only.
	ScopeRealm
	// ScopeClients matches roles belonging to any of the listed clients.
	ScopeClients
	// ScopeExcludeClients matches realm roles and roles of clients not listed.
	ScopeExcludeClients
)

// RoleScope is the role-search scope filter: realm roles, a specific client,
// a set of clients, or everything except a set of clients.
type RoleScope struct {
	Kind    RoleScopeKind
	Clients []string
}

// RealmRolesScope scopes a search to realm roles.
func RealmRolesScope() RoleScope {
	return RoleScope{Kind: ScopeRealm}
}

// ClientRolesScope scopes a search to the roles of one or more clients.
func ClientRolesScope(clients ...string) RoleScope {
	return RoleScope{Kind: ScopeClients, Clients: clients}
}

// ExcludeClientsScope scopes a search to everything except the listed clients.
func ExcludeClientsScope(clients ...string) RoleScope {
	return RoleScope{Kind: ScopeExcludeClients, Clients: clients}
}
