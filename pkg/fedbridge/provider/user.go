package provider

import (
	"log"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/adapter"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

// UserProvider is the user storage provider.
type UserProvider struct {
	env adapter.Env
}

var (
	_ federation.UserLookup       = (*UserProvider)(nil)
	_ federation.UserQuery        = (*UserProvider)(nil)
	_ federation.UserRegistration = (*UserProvider)(nil)
	_ federation.UserBulkUpdate   = (*UserProvider)(nil)
)

// NewUserProvider creates a new user storage provider
func NewUserProvider(env adapter.Env) *UserProvider {
	return &UserProvider{env: env}
}

// UserByID resolves a user from either ID space. Absence and malformed IDs
// both report a nil model.
func (p *UserProvider) UserByID(realmID, id string) (federation.UserModel, error) {
	user, err := adapter.ResolveUserByID(p.env, id)
	if err != nil || user == nil || user.RealmID != realmID {
		return nil, err
	}
	return adapter.NewUser(p.env, realmID, user), nil
}

// UserByUsername looks a user up by username.
func (p *UserProvider) UserByUsername(realmID, username string) (federation.UserModel, error) {
	user, err := p.env.Users.ByUsername(realmID, username)
	if err != nil || user == nil {
		return nil, err
	}
	return adapter.NewUser(p.env, realmID, user), nil
}

// UserByEmail looks a user up by email.
func (p *UserProvider) UserByEmail(realmID, email string) (federation.UserModel, error) {
	user, err := p.env.Users.ByEmail(realmID, email)
	if err != nil || user == nil {
		return nil, err
	}
	return adapter.NewUser(p.env, realmID, user), nil
}

// SearchUsers returns the realm's users matching the filter, paginated.
func (p *UserProvider) SearchUsers(realmID string, params federation.SearchParams) ([]federation.UserModel, error) {
	users, err := p.env.Users.Search(realmID, params)
	if err != nil {
		return nil, err
	}
	return p.wrapAll(realmID, users), nil
}

// UsersCount returns the number of users in the realm.
func (p *UserProvider) UsersCount(realmID string) (int64, error) {
	return p.env.Users.Count(realmID)
}

// GroupMembers returns the members of a group. An unresolvable group yields
// an empty result.
func (p *UserProvider) GroupMembers(realmID string, gm federation.GroupModel, params federation.SearchParams) ([]federation.UserModel, error) {
	group, err := adapter.ResolveGroup(p.env, gm)
	if err != nil || group == nil {
		return nil, err
	}
	users, err := p.env.Users.MembersOf(realmID, group.ID, params)
	if err != nil {
		return nil, err
	}
	return p.wrapAll(realmID, users), nil
}

// AddUser creates a user. A taken username yields repository.ErrUserExists
// and no entity. Creation is two-phase: the consumer-facing ID is only known
// once the new record can be qualified, so it is patched back after the
// insert; a patch failure is logged and the user remains usable by local key.
func (p *UserProvider) AddUser(realmID, username string) (federation.UserModel, error) {
	user := &models.User{Username: username, RealmID: realmID}
	if err := p.env.Users.Create(user); err != nil {
		return nil, err
	}

	fid := p.env.Codec.QualifiedID(user.ID)
	if err := p.env.Users.SetFederatedID(user.ID, fid); err != nil {
		log.Printf("add user %q: store consumer id: %v", username, err)
	} else {
		user.FederatedID = &fid
	}
	return adapter.NewUser(p.env, realmID, user), nil
}

// RemoveUser deletes a user. Returns false when the reference does not
// resolve.
func (p *UserProvider) RemoveUser(realmID, id string) (bool, error) {
	user, err := adapter.ResolveUserByID(p.env, id)
	if err != nil {
		return false, err
	}
	if user == nil || user.RealmID != realmID {
		return false, nil
	}
	return p.env.Users.Delete(user.ID)
}

// GrantRoleToAllUsers grants a role to every user of a realm. This is the
// one per-user batch loop in the bridge: the per-user role collection is a
// consumer-visible shape, so each page of users is mutated and persisted
// through the normal grant path rather than one set-based statement. An
// empty page terminates the loop; an unresolvable role no-ops.
func (p *UserProvider) GrantRoleToAllUsers(realmID string, rm federation.RoleModel) error {
	role, err := adapter.ResolveRole(p.env, rm)
	if err != nil {
		return err
	}
	if role == nil {
		log.Printf("grant role to all users in %q: role %q not resolvable, skipping", realmID, rm.Name())
		return nil
	}

	for offset := 0; ; {
		page, err := p.env.Users.Page(realmID, offset, batchSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		for i := range page {
			if hasDirectRole(&page[i], role.ID) {
				continue
			}
			if err := p.env.Users.GrantRole(&page[i], role); err != nil {
				return err
			}
		}
		offset += len(page)
	}
}

// RemoveRoleFromAllUsers revokes a role from every user of a realm with one
// set-based delete, the symmetric inverse of GrantRoleToAllUsers. An
// unresolvable role no-ops.
func (p *UserProvider) RemoveRoleFromAllUsers(realmID string, rm federation.RoleModel) error {
	role, err := adapter.ResolveRole(p.env, rm)
	if err != nil {
		return err
	}
	if role == nil {
		log.Printf("remove role from all users in %q: role %q not resolvable, skipping", realmID, rm.Name())
		return nil
	}
	return p.env.Users.RemoveRoleFromAllUsers(realmID, role.ID)
}

// RemoveRealm purges every user of the realm before the consumer removes the
// realm itself. Idempotent.
func (p *UserProvider) RemoveRealm(realmID string) error {
	return p.env.Users.DeleteAllByRealm(realmID)
}

// RemoveGroup purges user↔group membership rows before the consumer removes
// the group. An unresolvable group no-ops.
func (p *UserProvider) RemoveGroup(realmID string, gm federation.GroupModel) error {
	group, err := adapter.ResolveGroup(p.env, gm)
	if err != nil {
		return err
	}
	if group == nil {
		log.Printf("remove group in %q: group %q not resolvable, skipping", realmID, gm.Name())
		return nil
	}
	return p.env.Users.RemoveGroupMemberships(group.ID)
}

// RemoveRole purges user↔role assignment rows before the consumer removes
// the role. An unresolvable role no-ops.
func (p *UserProvider) RemoveRole(realmID string, rm federation.RoleModel) error {
	role, err := adapter.ResolveRole(p.env, rm)
	if err != nil {
		return err
	}
	if role == nil {
		log.Printf("remove role in %q: role %q not resolvable, skipping", realmID, rm.Name())
		return nil
	}
	return p.env.Users.RemoveRoleAssignments(role.ID)
}

func (p *UserProvider) wrapAll(realmID string, users []models.User) []federation.UserModel {
	out := make([]federation.UserModel, 0, len(users))
	for i := range users {
		out = append(out, adapter.NewUser(p.env, realmID, &users[i]))
	}
	return out
}

func hasDirectRole(user *models.User, roleID uint) bool {
	for i := range user.Roles {
		if user.Roles[i].ID == roleID {
			return true
		}
	}
	return false
}
