package provider

import (
	"log"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/adapter"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

// RoleProvider is the role storage provider.
type RoleProvider struct {
	env adapter.Env
}

var (
	_ federation.RoleLookup   = (*RoleProvider)(nil)
	_ federation.RoleQuery    = (*RoleProvider)(nil)
	_ federation.RoleMutation = (*RoleProvider)(nil)
)

// NewRoleProvider creates a new role storage provider
func NewRoleProvider(env adapter.Env) *RoleProvider {
	return &RoleProvider{env: env}
}

// RoleByID resolves a role from either ID space.
func (p *RoleProvider) RoleByID(realmID, id string) (federation.RoleModel, error) {
	role, err := adapter.ResolveRoleByID(p.env, id)
	if err != nil || role == nil || role.RealmID != realmID {
		return nil, err
	}
	return adapter.NewRole(p.env, realmID, role), nil
}

// RealmRole looks a realm role up by name.
func (p *RoleProvider) RealmRole(realmID, name string) (federation.RoleModel, error) {
	role, err := p.env.Roles.RealmRole(realmID, name)
	if err != nil || role == nil {
		return nil, err
	}
	return adapter.NewRole(p.env, realmID, role), nil
}

// ClientRole looks a client role up by name.
func (p *RoleProvider) ClientRole(realmID, clientID, name string) (federation.RoleModel, error) {
	role, err := p.env.Roles.ClientRole(realmID, clientID, name)
	if err != nil || role == nil {
		return nil, err
	}
	return adapter.NewRole(p.env, realmID, role), nil
}

// SearchRoles returns the realm's roles within scope matching the filter.
func (p *RoleProvider) SearchRoles(realmID string, scope federation.RoleScope, params federation.SearchParams) ([]federation.RoleModel, error) {
	roles, err := p.env.Roles.Search(realmID, scope, params)
	if err != nil {
		return nil, err
	}
	return p.wrapAll(realmID, roles), nil
}

// RolesByIDsOrSearch returns roles matching the ID set OR the text filter.
// Neither criterion yields an empty result, never the whole realm.
func (p *RoleProvider) RolesByIDsOrSearch(realmID string, ids []string, search *string, params federation.SearchParams) ([]federation.RoleModel, error) {
	localIDs, err := p.localRoleIDs(ids)
	if err != nil {
		return nil, err
	}
	roles, err := p.env.Roles.ByIDsOrSearch(realmID, federation.RoleScope{}, localIDs, search, params)
	if err != nil {
		return nil, err
	}
	return p.wrapAll(realmID, roles), nil
}

// AddRealmRole creates a realm role. A taken name yields
// repository.ErrRoleExists and no entity.
func (p *RoleProvider) AddRealmRole(realmID, name string) (federation.RoleModel, error) {
	return p.addRole(&models.Role{Name: name, RealmID: realmID})
}

// AddClientRole creates a role scoped to one client. A taken name within the
// client scope yields repository.ErrRoleExists and no entity.
func (p *RoleProvider) AddClientRole(realmID, clientID, name string) (federation.RoleModel, error) {
	return p.addRole(&models.Role{Name: name, RealmID: realmID, ClientID: clientID})
}

// addRole runs the two-phase creation: insert, then patch the
// consumer-facing ID back onto the row. A patch failure is logged and the
// role remains usable by local key.
func (p *RoleProvider) addRole(role *models.Role) (federation.RoleModel, error) {
	if err := p.env.Roles.Create(role); err != nil {
		return nil, err
	}

	fid := p.env.Codec.QualifiedID(role.ID)
	if err := p.env.Roles.SetFederatedID(role.ID, fid); err != nil {
		log.Printf("add role %q: store consumer id: %v", role.Name, err)
	} else {
		role.FederatedID = &fid
	}
	return adapter.NewRole(p.env, role.RealmID, role), nil
}

// DeleteRole removes a role together with its user and group assignments in
// one atomic unit. Returns false when the reference does not resolve.
func (p *RoleProvider) DeleteRole(realmID, id string) (bool, error) {
	role, err := adapter.ResolveRoleByID(p.env, id)
	if err != nil {
		return false, err
	}
	if role == nil || role.RealmID != realmID {
		return false, nil
	}
	return p.env.Roles.Delete(role.ID)
}

// DeleteAllRealmRoles removes every realm role of a realm, assignments
// included. Idempotent.
func (p *RoleProvider) DeleteAllRealmRoles(realmID string) error {
	return p.env.Roles.DeleteAllRealmRoles(realmID)
}

// DeleteAllClientRoles removes every role of one client, assignments
// included. Idempotent.
func (p *RoleProvider) DeleteAllClientRoles(realmID, clientID string) error {
	return p.env.Roles.DeleteAllClientRoles(realmID, clientID)
}

// RoleMappings aggregates a user's realm and client role mappings. The
// aggregation lives here rather than in the adapter so the realm and
// client streams stay separately consumable without double counting.
func (p *RoleProvider) RoleMappings(user federation.UserModel) []federation.RoleModel {
	ua, ok := user.(*adapter.UserAdapter)
	if !ok {
		return nil
	}
	entity := ua.Entity()
	out := make([]federation.RoleModel, 0, len(entity.Roles))
	for i := range entity.Roles {
		out = append(out, adapter.NewRole(p.env, entity.RealmID, &entity.Roles[i]))
	}
	return out
}

func (p *RoleProvider) wrapAll(realmID string, roles []models.Role) []federation.RoleModel {
	out := make([]federation.RoleModel, 0, len(roles))
	for i := range roles {
		out = append(out, adapter.NewRole(p.env, realmID, &roles[i]))
	}
	return out
}

// localRoleIDs maps consumer ID strings to local keys, dropping
// unresolvable entries.
func (p *RoleProvider) localRoleIDs(ids []string) ([]uint, error) {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		role, err := adapter.ResolveRoleByID(p.env, id)
		if err != nil {
			return nil, err
		}
		if role != nil {
			out = append(out, role.ID)
		}
	}
	return out, nil
}
