package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

// PermissionRepository handles relational access for permissions, including
// the effective-permission aggregation across direct and group-inherited
// role mappings.
type PermissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// ByKey looks a permission up by its decimal local-key string.
func (r *PermissionRepository) ByKey(key string) (*models.Permission, error) {
	id, ok := parseKey(key)
	if !ok {
		return nil, nil
	}
	return r.ByID(id)
}

// ByID looks a permission up by primary key.
func (r *PermissionRepository) ByID(id uint) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.First(&perm, id).Error; err != nil {
		return nil, notFoundIsNil(err)
	}
	return &perm, nil
}

// ByCode looks a permission up by its unique code.
func (r *PermissionRepository) ByCode(code string) (*models.Permission, error) {
	if code == "" {
		return nil, nil
	}
	var perm models.Permission
	if err := r.db.Where("code = ?", code).First(&perm).Error; err != nil {
		return nil, notFoundIsNil(err)
	}
	return &perm, nil
}

// List returns permissions matching the text filter on name or code.
func (r *PermissionRepository) List(p federation.SearchParams) ([]models.Permission, error) {
	q := r.db.Model(&models.Permission{})
	if p.Text != "" {
		if p.Exact {
			q = q.Where("name = ? OR code = ?", p.Text, p.Text)
		} else {
			like := likePattern(p.Text)
			q = q.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like)
		}
	}

	var perms []models.Permission
	if err := paginate(q, p).Order("code").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return perms, nil
}

// ForRole returns the permissions attached to one role.
func (r *PermissionRepository) ForRole(roleID uint) ([]models.Permission, error) {
	var perms []models.Permission
	err := r.db.
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.code").
		Find(&perms).Error
	if err != nil {
		return nil, fmt.Errorf("role permissions: %w", err)
	}
	return perms, nil
}

// EffectiveForUser returns the union of permissions across the user's direct
// roles and the roles inherited through one level of group membership.
// Duplicate grants collapse.
func (r *PermissionRepository) EffectiveForUser(userID uint) ([]models.Permission, error) {
	var perms []models.Permission
	err := r.db.Raw(`
		SELECT DISTINCT permissions.* FROM permissions
		JOIN role_permissions ON role_permissions.permission_id = permissions.id
		WHERE role_permissions.role_id IN (
			SELECT role_id FROM user_roles WHERE user_id = ?
			UNION
			SELECT role_id FROM group_roles WHERE group_id IN (
				SELECT group_id FROM user_groups WHERE user_id = ?
			)
		)
		ORDER BY permissions.code`, userID, userID).Scan(&perms).Error
	if err != nil {
		return nil, fmt.Errorf("effective permissions: %w", err)
	}
	return perms, nil
}

// Create persists a new permission. A taken code yields ErrPermissionExists.
func (r *PermissionRepository) Create(perm *models.Permission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Permission{}).Where("code = ?", perm.Code).Count(&count).Error
		if err != nil {
			return fmt.Errorf("create permission: %w", err)
		}
		if count > 0 {
			return ErrPermissionExists
		}
		if err := tx.Create(perm).Error; err != nil {
			return fmt.Errorf("create permission: %w", err)
		}
		return nil
	})
}

// Save persists field changes to an existing permission.
func (r *PermissionRepository) Save(perm *models.Permission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(perm).Error; err != nil {
			return fmt.Errorf("save permission: %w", err)
		}
		return nil
	})
}

// Delete removes a permission and its role attachments in one transaction.
// Returns false when the permission does not exist.
func (r *PermissionRepository) Delete(id uint) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE permission_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Permission{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete permission: %w", err)
	}
	return deleted, nil
}
