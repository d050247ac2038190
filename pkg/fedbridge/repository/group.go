package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

// GroupRepository handles relational access for groups, the group tree, and
// the group↔role join table.
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// ByKey looks a group up by its decimal local-key string.
func (r *GroupRepository) ByKey(key string) (*models.Group, error) {
	id, ok := parseKey(key)
	if !ok {
		return nil, nil
	}
	return r.ByID(id)
}

// ByID looks a group up by primary key.
func (r *GroupRepository) ByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.Preload("Roles").First(&group, id).Error; err != nil {
		return nil, notFoundIsNil(err)
	}
	return &group, nil
}

// ByFederatedID looks a group up by its stored consumer-assigned ID.
func (r *GroupRepository) ByFederatedID(fid string) (*models.Group, error) {
	if fid == "" {
		return nil, nil
	}
	var group models.Group
	err := r.db.Preload("Roles").Where("federated_id = ?", fid).First(&group).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &group, nil
}

// ByName looks a group up by name within its {parent, realm} scope. A nil
// parentID addresses the top level.
func (r *GroupRepository) ByName(realmID string, parentID *uint, name string) (*models.Group, error) {
	q := r.db.Preload("Roles").Where("realm_id = ? AND name = ?", realmID, name)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}

	var group models.Group
	if err := q.First(&group).Error; err != nil {
		return nil, notFoundIsNil(err)
	}
	return &group, nil
}

// Search returns the groups of a realm whose name matches the text filter.
func (r *GroupRepository) Search(realmID string, p federation.SearchParams) ([]models.Group, error) {
	q := r.db.Preload("Roles").Where("realm_id = ?", realmID)
	q = applyNameFilter(q, p)

	var groups []models.Group
	if err := paginate(q, p).Order("name").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("search groups: %w", err)
	}
	return groups, nil
}

// TopLevel returns a realm's top-level groups, paginated.
func (r *GroupRepository) TopLevel(realmID string, p federation.SearchParams) ([]models.Group, error) {
	q := r.db.Preload("Roles").Where("realm_id = ? AND parent_id IS NULL", realmID)
	q = applyNameFilter(q, p)

	var groups []models.Group
	if err := paginate(q, p).Order("name").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("top-level groups: %w", err)
	}
	return groups, nil
}

// ByIDsOrSearch returns groups matching the ID set OR the text filter.
// Passing neither yields an empty result, never the whole table.
func (r *GroupRepository) ByIDsOrSearch(realmID string, ids []uint, search *string, p federation.SearchParams) ([]models.Group, error) {
	if len(ids) == 0 && search == nil {
		return []models.Group{}, nil
	}

	q := r.db.Preload("Roles").Where("realm_id = ?", realmID)
	switch {
	case len(ids) > 0 && search != nil:
		q = q.Where("id IN ? OR LOWER(name) LIKE ?", ids, likePattern(*search))
	case len(ids) > 0:
		q = q.Where("id IN ?", ids)
	default:
		q = q.Where("LOWER(name) LIKE ?", likePattern(*search))
	}

	var groups []models.Group
	if err := paginate(q, p).Order("name").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("groups by ids or search: %w", err)
	}
	return groups, nil
}

// Children returns the direct children of a group.
func (r *GroupRepository) Children(parentID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Where("parent_id = ?", parentID).Order("name").Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("child groups: %w", err)
	}
	return groups, nil
}

// Create persists a new group after verifying the name is free within its
// {parent, realm} scope. A taken name yields ErrGroupExists.
func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Group{}).
			Where("realm_id = ? AND name = ?", group.RealmID, group.Name)
		if group.ParentID == nil {
			q = q.Where("parent_id IS NULL")
		} else {
			q = q.Where("parent_id = ?", *group.ParentID)
		}

		var count int64
		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		if count > 0 {
			return ErrGroupExists
		}
		if err := tx.Create(group).Error; err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		return nil
	})
}

// Save persists field changes to an existing group. Associations are managed
// through the dedicated role operations, never saved along.
func (r *GroupRepository) Save(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(group).Error; err != nil {
			return fmt.Errorf("save group: %w", err)
		}
		return nil
	})
}

// SetFederatedID patches the consumer-assigned ID onto an existing group.
func (r *GroupRepository) SetFederatedID(id uint, fid string) error {
	res := r.db.Model(&models.Group{}).Where("id = ?", id).Update("federated_id", fid)
	if res.Error != nil {
		return fmt.Errorf("set group federated id: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Move re-parents a group and recomputes the materialized parent-path for the
// whole moved subtree in one transaction. A nil parent moves the group to the
// top level, clearing both the parent reference and the path.
func (r *GroupRepository) Move(group *models.Group, parent *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if parent == nil {
			group.ParentID = nil
			group.ParentPath = ""
		} else {
			group.ParentID = &parent.ID
			group.ParentPath = PathFor(parent)
		}
		if err := tx.Omit(clause.Associations).Save(group).Error; err != nil {
			return fmt.Errorf("move group: %w", err)
		}
		return recomputeSubtreePaths(tx, group)
	})
}

// PathFor returns the parent-path value for children of the given group.
func PathFor(group *models.Group) string {
	return group.ParentPath + "/" + group.Name
}

// recomputeSubtreePaths walks the descendants of a moved group breadth-first,
// rewriting each child's parent-path from its (already updated) parent.
func recomputeSubtreePaths(tx *gorm.DB, group *models.Group) error {
	frontier := []*models.Group{group}
	for len(frontier) > 0 {
		next := []*models.Group{}
		for _, g := range frontier {
			var children []models.Group
			if err := tx.Where("parent_id = ?", g.ID).Find(&children).Error; err != nil {
				return fmt.Errorf("recompute paths: %w", err)
			}
			path := PathFor(g)
			for i := range children {
				child := &children[i]
				if child.ParentPath != path {
					err := tx.Model(&models.Group{}).Where("id = ?", child.ID).
						Update("parent_path", path).Error
					if err != nil {
						return fmt.Errorf("recompute paths: %w", err)
					}
					child.ParentPath = path
				}
				next = append(next, child)
			}
		}
		frontier = next
	}
	return nil
}

// Delete removes a group and its whole subtree, purging membership and
// role-mapping rows per level in one transaction. Returns false when the
// group does not exist.
func (r *GroupRepository) Delete(id uint) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		ids, err := subtreeIDs(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_groups WHERE group_id IN ?", ids).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM group_roles WHERE group_id IN ?", ids).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Group{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete group: %w", err)
	}
	return deleted, nil
}

// IsDescendant reports whether candidate lies inside the subtree rooted at
// ancestorID (the root itself included). Used to refuse moves that would
// create a cycle.
func (r *GroupRepository) IsDescendant(ancestorID, candidateID uint) (bool, error) {
	ids, err := subtreeIDs(r.db, ancestorID)
	if err != nil {
		return false, fmt.Errorf("descendant check: %w", err)
	}
	for _, id := range ids {
		if id == candidateID {
			return true, nil
		}
	}
	return false, nil
}

// subtreeIDs collects a group's ID and those of all its descendants.
func subtreeIDs(tx *gorm.DB, id uint) ([]uint, error) {
	ids := []uint{id}
	frontier := []uint{id}
	for len(frontier) > 0 {
		var next []uint
		err := tx.Model(&models.Group{}).Where("parent_id IN ?", frontier).
			Pluck("id", &next).Error
		if err != nil {
			return nil, err
		}
		ids = append(ids, next...)
		frontier = next
	}
	return ids, nil
}

// DeleteAllByRealm removes every group of a realm and their join rows as one
// set-based transaction. Idempotent.
func (r *GroupRepository) DeleteAllByRealm(realmID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		sub := "SELECT id FROM groups WHERE realm_id = ?"
		if err := tx.Exec("DELETE FROM user_groups WHERE group_id IN ("+sub+")", realmID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM group_roles WHERE group_id IN ("+sub+")", realmID).Error; err != nil {
			return err
		}
		return tx.Where("realm_id = ?", realmID).Delete(&models.Group{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete realm groups: %w", err)
	}
	return nil
}

// RemoveRoleMappings purges every group↔role row for one group.
func (r *GroupRepository) RemoveRoleMappings(groupID uint) error {
	if err := r.db.Exec("DELETE FROM group_roles WHERE group_id = ?", groupID).Error; err != nil {
		return fmt.Errorf("remove group role mappings: %w", err)
	}
	return nil
}

// RemoveRoleAssignments purges every group↔role row for one role.
func (r *GroupRepository) RemoveRoleAssignments(roleID uint) error {
	if err := r.db.Exec("DELETE FROM group_roles WHERE role_id = ?", roleID).Error; err != nil {
		return fmt.Errorf("remove role assignments: %w", err)
	}
	return nil
}

// AssignRole adds a role to the group's role set.
func (r *GroupRepository) AssignRole(group *models.Group, role *models.Role) error {
	if err := r.db.Model(group).Association("Roles").Append(role); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// RemoveRole removes a role from the group's role set.
func (r *GroupRepository) RemoveRole(group *models.Group, role *models.Role) error {
	if err := r.db.Model(group).Association("Roles").Delete(role); err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	return nil
}

// applyNameFilter applies the text filter from SearchParams to a name column.
func applyNameFilter(q *gorm.DB, p federation.SearchParams) *gorm.DB {
	if p.Text == "" {
		return q
	}
	if p.Exact {
		return q.Where("name = ?", p.Text)
	}
	return q.Where("LOWER(name) LIKE ?", likePattern(p.Text))
}
