package adapter

import (
	"errors"
	"log"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/repository"
)

// SyncGroup reconciles a consumer-held group object with the local store:
// resolve it by ID, then by name within its {parent, realm} scope, and only
// then create it. Safe to call repeatedly for the same object: assignment
// flows run it on every membership change, so idempotence is a hard
// requirement here.
func SyncGroup(env Env, realmID string, gm federation.GroupModel) (*models.Group, error) {
	group, err := ResolveGroup(env, gm)
	if err != nil {
		return nil, err
	}
	if group != nil {
		return refreshGroup(env, group, gm)
	}

	parent, err := syncParentRef(env, gm)
	if err != nil {
		return nil, err
	}
	var parentID *uint
	parentPath := ""
	if parent != nil {
		parentID = &parent.ID
		parentPath = repository.PathFor(parent)
	}

	group, err = env.Groups.ByName(realmID, parentID, gm.Name())
	if err != nil {
		return nil, err
	}
	if group != nil {
		adoptFederatedID(gm.ID(), group.FederatedID, func(fid string) error {
			return env.Groups.SetFederatedID(group.ID, fid)
		})
		return group, nil
	}

	group = &models.Group{
		Name:        gm.Name(),
		Description: gm.Description(),
		ParentID:    parentID,
		ParentPath:  parentPath,
		RealmID:     realmID,
	}
	if fid := gm.ID(); fid != "" {
		group.FederatedID = &fid
	}

	if err := env.Groups.Create(group); err != nil {
		// A concurrent sync for the same object may have won the insert;
		// the natural-key constraint rejects ours, so adopt the winner.
		if errors.Is(err, repository.ErrGroupExists) {
			return env.Groups.ByName(realmID, parentID, gm.Name())
		}
		return nil, err
	}
	return group, nil
}

// SyncRole reconciles a consumer-held role object with the local store,
// keyed by name within its {realm, client} scope. Idempotent for the same
// consumer object.
func SyncRole(env Env, realmID string, rm federation.RoleModel) (*models.Role, error) {
	role, err := ResolveRole(env, rm)
	if err != nil {
		return nil, err
	}
	if role != nil {
		return refreshRole(env, role, rm)
	}

	role, err = scopedLookup(env, realmID, rm)
	if err != nil {
		return nil, err
	}
	if role != nil {
		adoptFederatedID(rm.ID(), role.FederatedID, func(fid string) error {
			return env.Roles.SetFederatedID(role.ID, fid)
		})
		return role, nil
	}

	role = &models.Role{
		Name:        rm.Name(),
		Description: rm.Description(),
		ClientID:    rm.ClientID(),
		RealmID:     realmID,
	}
	if fid := rm.ID(); fid != "" {
		role.FederatedID = &fid
	}

	if err := env.Roles.Create(role); err != nil {
		if errors.Is(err, repository.ErrRoleExists) {
			return scopedLookup(env, realmID, rm)
		}
		return nil, err
	}
	return role, nil
}

func scopedLookup(env Env, realmID string, rm federation.RoleModel) (*models.Role, error) {
	if rm.IsClientRole() {
		return env.Roles.ClientRole(realmID, rm.ClientID(), rm.Name())
	}
	return env.Roles.RealmRole(realmID, rm.Name())
}

// syncParentRef resolves the consumer object's parent reference. An
// unresolvable parent is logged and treated as top level rather than
// failing the whole sync.
func syncParentRef(env Env, gm federation.GroupModel) (*models.Group, error) {
	pid := gm.ParentID()
	if pid == "" {
		return nil, nil
	}
	parent, err := ResolveGroupByID(env, pid)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		log.Printf("sync group %q: parent %q not resolvable, creating at top level", gm.Name(), pid)
	}
	return parent, nil
}

// refreshGroup updates mutable fields from the consumer object when they
// have drifted.
func refreshGroup(env Env, group *models.Group, gm federation.GroupModel) (*models.Group, error) {
	if gm.Description() != "" && group.Description != gm.Description() {
		group.Description = gm.Description()
		if err := env.Groups.Save(group); err != nil {
			return nil, err
		}
	}
	return group, nil
}

// refreshRole updates mutable fields from the consumer object when they
// have drifted.
func refreshRole(env Env, role *models.Role, rm federation.RoleModel) (*models.Role, error) {
	if rm.Description() != "" && role.Description != rm.Description() {
		role.Description = rm.Description()
		if err := env.Roles.Save(role); err != nil {
			return nil, err
		}
	}
	return role, nil
}

// adoptFederatedID stores the consumer's ID on a record found by natural key,
// provided the record has none yet. The consumer-facing ID is assigned at
// most once; a patch failure is a recoverable anomaly, not a sync failure.
func adoptFederatedID(consumerID string, current *string, set func(string) error) {
	if consumerID == "" || (current != nil && *current != "") {
		return
	}
	if err := set(consumerID); err != nil {
		log.Printf("adopt consumer id %q: %v", consumerID, err)
	}
}
