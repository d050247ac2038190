package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

// RoleRepository handles relational access for realm and client roles and the
// role↔permission join table. Role deletion purges the user↔role and
// group↔role assignment rows in the same transaction as the role row itself,
// since the store does not cascade across those relations.
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// ByKey looks a role up by its decimal local-key string.
func (r *RoleRepository) ByKey(key string) (*models.Role, error) {
	id, ok := parseKey(key)
	if !ok {
		return nil, nil
	}
	return r.ByID(id)
}

// ByID looks a role up by primary key.
func (r *RoleRepository) ByID(id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.Preload("Permissions").First(&role, id).Error; err != nil {
		return nil, notFoundIsNil(err)
	}
	return &role, nil
}

// ByFederatedID looks a role up by its stored consumer-assigned ID.
func (r *RoleRepository) ByFederatedID(fid string) (*models.Role, error) {
	if fid == "" {
		return nil, nil
	}
	var role models.Role
	err := r.db.Preload("Permissions").Where("federated_id = ?", fid).First(&role).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &role, nil
}

// RealmRole looks a realm role up by name.
func (r *RoleRepository) RealmRole(realmID, name string) (*models.Role, error) {
	return r.scopedRole(realmID, "", name)
}

// ClientRole looks a client role up by name.
func (r *RoleRepository) ClientRole(realmID, clientID, name string) (*models.Role, error) {
	if clientID == "" {
		return nil, nil
	}
	return r.scopedRole(realmID, clientID, name)
}

func (r *RoleRepository) scopedRole(realmID, clientID, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.Preload("Permissions").
		Where("realm_id = ? AND client_id = ? AND name = ?", realmID, clientID, name).
		First(&role).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &role, nil
}

// Search returns the roles of a realm within the given scope whose name
// matches the text filter.
func (r *RoleRepository) Search(realmID string, scope federation.RoleScope, p federation.SearchParams) ([]models.Role, error) {
	q := r.db.Preload("Permissions").Where("realm_id = ?", realmID)
	q = applyScope(q, scope)
	q = applyNameFilter(q, p)

	var roles []models.Role
	if err := paginate(q, p).Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("search roles: %w", err)
	}
	return roles, nil
}

// ByIDsOrSearch returns roles matching the ID set OR the text filter within
// the given scope. Passing neither yields an empty result.
func (r *RoleRepository) ByIDsOrSearch(realmID string, scope federation.RoleScope, ids []uint, search *string, p federation.SearchParams) ([]models.Role, error) {
	if len(ids) == 0 && search == nil {
		return []models.Role{}, nil
	}

	q := r.db.Preload("Permissions").Where("realm_id = ?", realmID)
	q = applyScope(q, scope)
	switch {
	case len(ids) > 0 && search != nil:
		q = q.Where("id IN ? OR LOWER(name) LIKE ?", ids, likePattern(*search))
	case len(ids) > 0:
		q = q.Where("id IN ?", ids)
	default:
		q = q.Where("LOWER(name) LIKE ?", likePattern(*search))
	}

	var roles []models.Role
	if err := paginate(q, p).Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("roles by ids or search: %w", err)
	}
	return roles, nil
}

// Create persists a new role after verifying the name is free within its
// {realm, client} scope. A taken name yields ErrRoleExists.
func (r *RoleRepository) Create(role *models.Role) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Role{}).
			Where("realm_id = ? AND client_id = ? AND name = ?", role.RealmID, role.ClientID, role.Name).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("create role: %w", err)
		}
		if count > 0 {
			return ErrRoleExists
		}
		if err := tx.Create(role).Error; err != nil {
			return fmt.Errorf("create role: %w", err)
		}
		return nil
	})
}

// Save persists field changes to an existing role. Associations are managed
// through the dedicated permission operations, never saved along.
func (r *RoleRepository) Save(role *models.Role) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(role).Error; err != nil {
			return fmt.Errorf("save role: %w", err)
		}
		return nil
	})
}

// SetFederatedID patches the consumer-assigned ID onto an existing role.
func (r *RoleRepository) SetFederatedID(id uint, fid string) error {
	res := r.db.Model(&models.Role{}).Where("id = ?", id).Update("federated_id", fid)
	if res.Error != nil {
		return fmt.Errorf("set role federated id: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a role together with every user, group, and permission row
// referencing it, all in one transaction so a crash cannot leave dangling
// join rows. Returns false when the role does not exist.
func (r *RoleRepository) Delete(id uint) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_roles WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM group_roles WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Role{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete role: %w", err)
	}
	return deleted, nil
}

// DeleteAllRealmRoles removes every realm role of a realm, assignment rows
// included, as one set-based transaction. Idempotent.
func (r *RoleRepository) DeleteAllRealmRoles(realmID string) error {
	return r.deleteAllInScope(realmID, "")
}

// DeleteAllClientRoles removes every role of one client in a realm,
// assignment rows included, as one set-based transaction. Idempotent.
func (r *RoleRepository) DeleteAllClientRoles(realmID, clientID string) error {
	if clientID == "" {
		return nil
	}
	return r.deleteAllInScope(realmID, clientID)
}

func (r *RoleRepository) deleteAllInScope(realmID, clientID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		sub := "SELECT id FROM roles WHERE realm_id = ? AND client_id = ?"
		if err := tx.Exec("DELETE FROM user_roles WHERE role_id IN ("+sub+")", realmID, clientID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM group_roles WHERE role_id IN ("+sub+")", realmID, clientID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id IN ("+sub+")", realmID, clientID).Error; err != nil {
			return err
		}
		return tx.Where("realm_id = ? AND client_id = ?", realmID, clientID).Delete(&models.Role{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete roles in scope: %w", err)
	}
	return nil
}

// AddPermission attaches a permission to the role.
func (r *RoleRepository) AddPermission(role *models.Role, perm *models.Permission) error {
	if err := r.db.Model(role).Association("Permissions").Append(perm); err != nil {
		return fmt.Errorf("add permission: %w", err)
	}
	return nil
}

// RemovePermission detaches a permission from the role.
func (r *RoleRepository) RemovePermission(role *models.Role, perm *models.Permission) error {
	if err := r.db.Model(role).Association("Permissions").Delete(perm); err != nil {
		return fmt.Errorf("remove permission: %w", err)
	}
	return nil
}

// applyScope narrows a role query to the requested slice of the role table.
func applyScope(q *gorm.DB, scope federation.RoleScope) *gorm.DB {
	switch scope.Kind {
	case federation.ScopeRealm:
		return q.Where("client_id = ?", "")
	case federation.ScopeClients:
		if len(scope.Clients) == 0 {
			return q.Where("1 = 0")
		}
		return q.Where("client_id IN ?", scope.Clients)
	case federation.ScopeExcludeClients:
		if len(scope.Clients) == 0 {
			return q
		}
		return q.Where("client_id NOT IN ?", scope.Clients)
	default:
		return q
	}
}
