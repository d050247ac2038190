package adapter

import (
	"github.com/fedbridge/fedbridge/pkg/fedbridge/auth"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

// Attribute names mapped onto dedicated profile columns. Anything else is
// delegated to the environment's generic attribute store.
const (
	AttrFirstName = "firstName"
	AttrLastName  = "lastName"
	AttrPhone     = "phone"
	AttrAddress   = "address"
	AttrAvatarURL = "avatarUrl"
)

// UserAdapter presents a stored user as the consumer-shaped identity object.
type UserAdapter struct {
	env     Env
	realmID string
	user    *models.User
}

var _ federation.UserModel = (*UserAdapter)(nil)

// NewUser wraps a user record for one request.
func NewUser(env Env, realmID string, user *models.User) *UserAdapter {
	return &UserAdapter{env: env, realmID: realmID, user: user}
}

// Entity returns the wrapped record.
func (a *UserAdapter) Entity() *models.User {
	return a.user
}

// ID returns the consumer-facing identifier for this user.
func (a *UserAdapter) ID() string {
	return a.env.consumerID(a.user.FederatedID, a.user.ID)
}

func (a *UserAdapter) Username() string {
	return a.user.Username
}

func (a *UserAdapter) SetUsername(username string) error {
	a.user.Username = username
	return a.env.Users.Save(a.user)
}

func (a *UserAdapter) Email() string {
	return a.user.Email
}

func (a *UserAdapter) SetEmail(email string) error {
	a.user.Email = email
	return a.env.Users.Save(a.user)
}

func (a *UserAdapter) IsEnabled() bool {
	return a.user.Enabled()
}

func (a *UserAdapter) SetEnabled(enabled bool) error {
	a.user.Locked = !enabled
	return a.env.Users.Save(a.user)
}

func (a *UserAdapter) IsEmailVerified() bool {
	return a.user.EmailVerified
}

func (a *UserAdapter) SetEmailVerified(verified bool) error {
	a.user.EmailVerified = verified
	return a.env.Users.Save(a.user)
}

// SetPassword hashes and stores a new password.
func (a *UserAdapter) SetPassword(password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	a.user.PasswordHash = hash
	return a.env.Users.Save(a.user)
}

// CheckPassword verifies a plaintext password against the stored hash.
func (a *UserAdapter) CheckPassword(password string) bool {
	if a.user.PasswordHash == "" {
		return false
	}
	return auth.CheckPassword(password, a.user.PasswordHash)
}

// FirstAttribute reads a named attribute. The fixed set maps onto profile
// columns; a missing profile reads as empty, never as a failure.
func (a *UserAdapter) FirstAttribute(name string) string {
	switch name {
	case AttrFirstName, AttrLastName, AttrPhone, AttrAddress, AttrAvatarURL:
		p := a.user.Profile
		if p == nil {
			return ""
		}
		return profileField(p, name)
	default:
		if a.env.Attributes == nil {
			return ""
		}
		return a.env.Attributes.FirstAttribute(a.user.ID, name)
	}
}

// SetAttribute writes a named attribute, creating the profile row on first
// use of a profile-mapped name.
func (a *UserAdapter) SetAttribute(name, value string) error {
	switch name {
	case AttrFirstName, AttrLastName, AttrPhone, AttrAddress, AttrAvatarURL:
		p := a.user.Profile
		if p == nil {
			existing, err := a.env.Users.ProfileFor(a.user.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				p = existing
			} else {
				p = &models.UserProfile{UserID: a.user.ID}
			}
			a.user.Profile = p
		}
		setProfileField(p, name, value)
		return a.env.Users.SaveProfile(p)
	default:
		if a.env.Attributes == nil {
			return nil
		}
		return a.env.Attributes.SetAttribute(a.user.ID, name, value)
	}
}

// RealmRoleMappings returns the user's directly assigned realm roles.
func (a *UserAdapter) RealmRoleMappings() []federation.RoleModel {
	var out []federation.RoleModel
	for i := range a.user.Roles {
		if !a.user.Roles[i].IsClientRole() {
			out = append(out, NewRole(a.env, a.realmID, &a.user.Roles[i]))
		}
	}
	return out
}

// ClientRoleMappings returns the user's directly assigned roles for one
// client.
func (a *UserAdapter) ClientRoleMappings(clientID string) []federation.RoleModel {
	var out []federation.RoleModel
	for i := range a.user.Roles {
		if a.user.Roles[i].ClientID == clientID {
			out = append(out, NewRole(a.env, a.realmID, &a.user.Roles[i]))
		}
	}
	return out
}

// GrantRole adds a role to the user's direct role set, materializing the
// role locally first if the consumer originated it.
func (a *UserAdapter) GrantRole(rm federation.RoleModel) error {
	role, err := SyncRole(a.env, a.realmID, rm)
	if err != nil {
		return err
	}
	if err := a.env.Users.GrantRole(a.user, role); err != nil {
		return err
	}
	a.user.Roles = appendRole(a.user.Roles, role)
	return nil
}

// RevokeRole removes a role from the user's direct role set. An unresolvable
// role is a no-op.
func (a *UserAdapter) RevokeRole(rm federation.RoleModel) error {
	role, err := ResolveRole(a.env, rm)
	if err != nil || role == nil {
		return err
	}
	if err := a.env.Users.RevokeRole(a.user, role); err != nil {
		return err
	}
	a.user.Roles = removeRole(a.user.Roles, role.ID)
	return nil
}

// HasRole reports whether the user holds the role directly or through one
// level of group membership. A role with no local counterpart is
// conclusively not held.
func (a *UserAdapter) HasRole(rm federation.RoleModel) bool {
	role, err := ResolveRole(a.env, rm)
	if err != nil || role == nil {
		return false
	}
	for i := range a.user.Roles {
		if a.user.Roles[i].ID == role.ID {
			return true
		}
	}
	for i := range a.user.Groups {
		for j := range a.user.Groups[i].Roles {
			if a.user.Groups[i].Roles[j].ID == role.ID {
				return true
			}
		}
	}
	return false
}

// Groups returns the groups the user is a member of.
func (a *UserAdapter) Groups() []federation.GroupModel {
	out := make([]federation.GroupModel, 0, len(a.user.Groups))
	for i := range a.user.Groups {
		out = append(out, NewGroup(a.env, a.realmID, &a.user.Groups[i]))
	}
	return out
}

// IsMemberOf reports whether the user belongs to the group. A group with no
// local counterpart is conclusively not joined.
func (a *UserAdapter) IsMemberOf(gm federation.GroupModel) bool {
	group, err := ResolveGroup(a.env, gm)
	if err != nil || group == nil {
		return false
	}
	for i := range a.user.Groups {
		if a.user.Groups[i].ID == group.ID {
			return true
		}
	}
	return false
}

// JoinGroup adds the user to a group, materializing the group locally first
// if the consumer originated it.
func (a *UserAdapter) JoinGroup(gm federation.GroupModel) error {
	group, err := SyncGroup(a.env, a.realmID, gm)
	if err != nil {
		return err
	}
	if err := a.env.Users.JoinGroup(a.user, group); err != nil {
		return err
	}
	a.user.Groups = appendGroup(a.user.Groups, group)
	return nil
}

// LeaveGroup removes the user from a group. An unresolvable group is a no-op.
func (a *UserAdapter) LeaveGroup(gm federation.GroupModel) error {
	group, err := ResolveGroup(a.env, gm)
	if err != nil || group == nil {
		return err
	}
	if err := a.env.Users.LeaveGroup(a.user, group); err != nil {
		return err
	}
	a.user.Groups = removeGroup(a.user.Groups, group.ID)
	return nil
}

// EffectivePermissions returns the union of permissions across the user's
// direct and group-inherited roles.
func (a *UserAdapter) EffectivePermissions() ([]models.Permission, error) {
	return a.env.Permissions.EffectiveForUser(a.user.ID)
}

func profileField(p *models.UserProfile, name string) string {
	switch name {
	case AttrFirstName:
		return p.FirstName
	case AttrLastName:
		return p.LastName
	case AttrPhone:
		return p.Phone
	case AttrAddress:
		return p.Address
	case AttrAvatarURL:
		return p.AvatarURL
	}
	return ""
}

func setProfileField(p *models.UserProfile, name, value string) {
	switch name {
	case AttrFirstName:
		p.FirstName = value
	case AttrLastName:
		p.LastName = value
	case AttrPhone:
		p.Phone = value
	case AttrAddress:
		p.Address = value
	case AttrAvatarURL:
		p.AvatarURL = value
	}
}

func appendRole(roles []models.Role, role *models.Role) []models.Role {
	for i := range roles {
		if roles[i].ID == role.ID {
			return roles
		}
	}
	return append(roles, *role)
}

func removeRole(roles []models.Role, id uint) []models.Role {
	out := roles[:0]
	for i := range roles {
		if roles[i].ID != id {
			out = append(out, roles[i])
		}
	}
	return out
}

func appendGroup(groups []models.Group, group *models.Group) []models.Group {
	for i := range groups {
		if groups[i].ID == group.ID {
			return groups
		}
	}
	return append(groups, *group)
}

func removeGroup(groups []models.Group, id uint) []models.Group {
	out := groups[:0]
	for i := range groups {
		if groups[i].ID != id {
			out = append(out, groups[i])
		}
	}
	return out
}
