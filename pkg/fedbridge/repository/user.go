package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

// UserRepository handles all relational access for users, their profile rows,
// and the user↔role / user↔group join tables.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// withAssociations preloads everything the adapters traverse: direct roles,
// groups with their role mappings (one level), and the optional profile.
func (r *UserRepository) withAssociations() *gorm.DB {
	return r.db.
		Preload("Roles").
		Preload("Groups").
		Preload("Groups.Roles").
		Preload("Profile")
}

// ByKey looks a user up by its decimal local-key string.
func (r *UserRepository) ByKey(key string) (*models.User, error) {
	id, ok := parseKey(key)
	if !ok {
		return nil, nil
	}
	return r.ByID(id)
}

// ByID looks a user up by primary key.
func (r *UserRepository) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.withAssociations().First(&user, id).Error; err != nil {
		return nil, notFoundIsNil(err)
	}
	return &user, nil
}

// ByFederatedID looks a user up by its stored consumer-assigned ID.
func (r *UserRepository) ByFederatedID(fid string) (*models.User, error) {
	if fid == "" {
		return nil, nil
	}
	var user models.User
	err := r.withAssociations().Where("federated_id = ?", fid).First(&user).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &user, nil
}

// ByUsername looks a user up by username within a realm, case-insensitively.
func (r *UserRepository) ByUsername(realmID, username string) (*models.User, error) {
	var user models.User
	err := r.withAssociations().
		Where("realm_id = ? AND LOWER(username) = LOWER(?)", realmID, username).
		First(&user).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &user, nil
}

// ByEmail looks a user up by email within a realm, case-insensitively.
func (r *UserRepository) ByEmail(realmID, email string) (*models.User, error) {
	if email == "" {
		return nil, nil
	}
	var user models.User
	err := r.withAssociations().
		Where("realm_id = ? AND LOWER(email) = LOWER(?)", realmID, email).
		First(&user).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &user, nil
}

// Search returns the users of a realm matching the text filter, paginated.
// The filter matches username or email.
func (r *UserRepository) Search(realmID string, p federation.SearchParams) ([]models.User, error) {
	q := r.withAssociations().Where("users.realm_id = ?", realmID)

	if p.Text != "" {
		if p.Exact {
			q = q.Where("username = ? OR email = ?", p.Text, p.Text)
		} else {
			like := likePattern(p.Text)
			q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
		}
	}

	var users []models.User
	if err := paginate(q, p).Order("users.id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// Count returns the number of users in a realm.
func (r *UserRepository) Count(realmID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("realm_id = ?", realmID).Count(&count).Error
	return count, err
}

// Page returns one batch of a realm's users ordered by primary key. It backs
// the paginated bulk-grant loop; a short or empty page signals the end.
func (r *UserRepository) Page(realmID string, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.withAssociations().
		Where("users.realm_id = ?", realmID).
		Order("users.id").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("page users: %w", err)
	}
	return users, nil
}

// MembersOf returns the members of a group, paginated.
func (r *UserRepository) MembersOf(realmID string, groupID uint, p federation.SearchParams) ([]models.User, error) {
	q := r.withAssociations().
		Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Where("user_groups.group_id = ? AND users.realm_id = ?", groupID, realmID)

	var users []models.User
	if err := paginate(q, p).Order("users.id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("group members: %w", err)
	}
	return users, nil
}

// Create persists a new user after verifying the username is free in the
// realm. A taken username yields ErrUserExists.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.User{}).
			Where("realm_id = ? AND LOWER(username) = LOWER(?)", user.RealmID, user.Username).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if count > 0 {
			return ErrUserExists
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

// Save persists field changes to an existing user. Associations are managed
// through the dedicated grant/join operations, never saved along.
func (r *UserRepository) Save(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return nil
	})
}

// SetFederatedID patches the consumer-assigned ID onto an existing user.
// ErrNotFound means the row has vanished since creation.
func (r *UserRepository) SetFederatedID(id uint, fid string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("federated_id", fid)
	if res.Error != nil {
		return fmt.Errorf("set user federated id: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user and all rows referencing it in one transaction.
// Returns false when the user does not exist.
func (r *UserRepository) Delete(id uint) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_groups WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserProfile{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return deleted, nil
}

// DeleteAllByRealm removes every user of a realm and their join rows as one
// set-based transaction. Idempotent: an already-clean realm deletes nothing.
func (r *UserRepository) DeleteAllByRealm(realmID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		sub := "SELECT id FROM users WHERE realm_id = ?"
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id IN ("+sub+")", realmID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_groups WHERE user_id IN ("+sub+")", realmID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_profiles WHERE user_id IN ("+sub+")", realmID).Error; err != nil {
			return err
		}
		return tx.Where("realm_id = ?", realmID).Delete(&models.User{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete realm users: %w", err)
	}
	return nil
}

// GrantRole adds a role to the user's direct role set.
func (r *UserRepository) GrantRole(user *models.User, role *models.Role) error {
	if err := r.db.Model(user).Association("Roles").Append(role); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

// RevokeRole removes a role from the user's direct role set.
func (r *UserRepository) RevokeRole(user *models.User, role *models.Role) error {
	if err := r.db.Model(user).Association("Roles").Delete(role); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	return nil
}

// JoinGroup adds the user to a group.
func (r *UserRepository) JoinGroup(user *models.User, group *models.Group) error {
	if err := r.db.Model(user).Association("Groups").Append(group); err != nil {
		return fmt.Errorf("join group: %w", err)
	}
	return nil
}

// LeaveGroup removes the user from a group.
func (r *UserRepository) LeaveGroup(user *models.User, group *models.Group) error {
	if err := r.db.Model(user).Association("Groups").Delete(group); err != nil {
		return fmt.Errorf("leave group: %w", err)
	}
	return nil
}

// RemoveGroupMemberships purges every user↔group row for one group.
func (r *UserRepository) RemoveGroupMemberships(groupID uint) error {
	if err := r.db.Exec("DELETE FROM user_groups WHERE group_id = ?", groupID).Error; err != nil {
		return fmt.Errorf("remove group memberships: %w", err)
	}
	return nil
}

// RemoveRoleAssignments purges every user↔role row for one role.
func (r *UserRepository) RemoveRoleAssignments(roleID uint) error {
	if err := r.db.Exec("DELETE FROM user_roles WHERE role_id = ?", roleID).Error; err != nil {
		return fmt.Errorf("remove role assignments: %w", err)
	}
	return nil
}

// RemoveRoleFromAllUsers revokes a role from every user of a realm as one
// set-based delete, the inverse of the paginated bulk grant.
func (r *UserRepository) RemoveRoleFromAllUsers(realmID string, roleID uint) error {
	err := r.db.Exec(
		"DELETE FROM user_roles WHERE role_id = ? AND user_id IN (SELECT id FROM users WHERE realm_id = ?)",
		roleID, realmID).Error
	if err != nil {
		return fmt.Errorf("remove role from realm users: %w", err)
	}
	return nil
}

// ProfileFor returns the user's profile row, or nil when none exists.
func (r *UserRepository) ProfileFor(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &profile, nil
}

// SaveProfile creates or updates a user's profile row.
func (r *UserRepository) SaveProfile(profile *models.UserProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(profile).Error; err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		return nil
	})
}
