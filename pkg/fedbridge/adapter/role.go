package adapter

import (
	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

// RoleAdapter presents a stored role as the consumer-shaped role object.
type RoleAdapter struct {
	env     Env
	realmID string
	role    *models.Role
}

var _ federation.RoleModel = (*RoleAdapter)(nil)

// NewRole wraps a role record for one request.
func NewRole(env Env, realmID string, role *models.Role) *RoleAdapter {
	return &RoleAdapter{env: env, realmID: realmID, role: role}
}

// Entity returns the wrapped record.
func (a *RoleAdapter) Entity() *models.Role {
	return a.role
}

// ID returns the consumer-facing identifier for this role.
func (a *RoleAdapter) ID() string {
	return a.env.consumerID(a.role.FederatedID, a.role.ID)
}

func (a *RoleAdapter) Name() string {
	return a.role.Name
}

func (a *RoleAdapter) Description() string {
	return a.role.Description
}

func (a *RoleAdapter) SetDescription(description string) error {
	a.role.Description = description
	return a.env.Roles.Save(a.role)
}

func (a *RoleAdapter) ClientID() string {
	return a.role.ClientID
}

func (a *RoleAdapter) IsClientRole() bool {
	return a.role.IsClientRole()
}

// Permissions returns the permissions attached to the role.
func (a *RoleAdapter) Permissions() []models.Permission {
	return a.role.Permissions
}

// AddPermission attaches a permission to the role.
func (a *RoleAdapter) AddPermission(perm *models.Permission) error {
	if err := a.env.Roles.AddPermission(a.role, perm); err != nil {
		return err
	}
	a.role.Permissions = appendPermission(a.role.Permissions, perm)
	return nil
}

// RemovePermission detaches a permission from the role.
func (a *RoleAdapter) RemovePermission(perm *models.Permission) error {
	if err := a.env.Roles.RemovePermission(a.role, perm); err != nil {
		return err
	}
	out := a.role.Permissions[:0]
	for i := range a.role.Permissions {
		if a.role.Permissions[i].ID != perm.ID {
			out = append(out, a.role.Permissions[i])
		}
	}
	a.role.Permissions = out
	return nil
}

func appendPermission(perms []models.Permission, perm *models.Permission) []models.Permission {
	for i := range perms {
		if perms[i].ID == perm.ID {
			return perms
		}
	}
	return append(perms, *perm)
}
