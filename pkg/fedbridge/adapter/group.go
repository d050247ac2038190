package adapter

import (
	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

// GroupAdapter presents a stored group as the consumer-shaped group object.
type GroupAdapter struct {
	env     Env
	realmID string
	group   *models.Group
}

var _ federation.GroupModel = (*GroupAdapter)(nil)

// NewGroup wraps a group record for one request.
func NewGroup(env Env, realmID string, group *models.Group) *GroupAdapter {
	return &GroupAdapter{env: env, realmID: realmID, group: group}
}

// Entity returns the wrapped record.
func (a *GroupAdapter) Entity() *models.Group {
	return a.group
}

// ID returns the consumer-facing identifier for this group.
func (a *GroupAdapter) ID() string {
	return a.env.consumerID(a.group.FederatedID, a.group.ID)
}

func (a *GroupAdapter) Name() string {
	return a.group.Name
}

func (a *GroupAdapter) SetName(name string) error {
	a.group.Name = name
	return a.env.Groups.Save(a.group)
}

func (a *GroupAdapter) Description() string {
	return a.group.Description
}

func (a *GroupAdapter) SetDescription(description string) error {
	a.group.Description = description
	return a.env.Groups.Save(a.group)
}

// ParentID returns the consumer ID of the parent group, "" for top level.
func (a *GroupAdapter) ParentID() string {
	if a.group.ParentID == nil {
		return ""
	}
	parent, err := a.env.Groups.ByID(*a.group.ParentID)
	if err != nil || parent == nil {
		return ""
	}
	return a.env.consumerID(parent.FederatedID, parent.ID)
}

// Parent returns the parent group, nil for top-level groups.
func (a *GroupAdapter) Parent() (federation.GroupModel, error) {
	if a.group.ParentID == nil {
		return nil, nil
	}
	parent, err := a.env.Groups.ByID(*a.group.ParentID)
	if err != nil || parent == nil {
		return nil, err
	}
	return NewGroup(a.env, a.realmID, parent), nil
}

// SubGroups returns the group's direct children.
func (a *GroupAdapter) SubGroups() ([]federation.GroupModel, error) {
	children, err := a.env.Groups.Children(a.group.ID)
	if err != nil {
		return nil, err
	}
	out := make([]federation.GroupModel, 0, len(children))
	for i := range children {
		out = append(out, NewGroup(a.env, a.realmID, &children[i]))
	}
	return out, nil
}

// RoleMappings returns the roles assigned to the group.
func (a *GroupAdapter) RoleMappings() []federation.RoleModel {
	out := make([]federation.RoleModel, 0, len(a.group.Roles))
	for i := range a.group.Roles {
		out = append(out, NewRole(a.env, a.realmID, &a.group.Roles[i]))
	}
	return out
}

// AssignRole adds a role to the group's role set, materializing the role
// locally first if the consumer originated it.
func (a *GroupAdapter) AssignRole(rm federation.RoleModel) error {
	role, err := SyncRole(a.env, a.realmID, rm)
	if err != nil {
		return err
	}
	if err := a.env.Groups.AssignRole(a.group, role); err != nil {
		return err
	}
	a.group.Roles = appendRole(a.group.Roles, role)
	return nil
}

// RemoveRole removes a role from the group's role set. An unresolvable role
// is a no-op.
func (a *GroupAdapter) RemoveRole(rm federation.RoleModel) error {
	role, err := ResolveRole(a.env, rm)
	if err != nil || role == nil {
		return err
	}
	if err := a.env.Groups.RemoveRole(a.group, role); err != nil {
		return err
	}
	a.group.Roles = removeRole(a.group.Roles, role.ID)
	return nil
}
