package provider

import (
	"log"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/adapter"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/repository"
)

// GroupProvider is the group storage provider.
type GroupProvider struct {
	env adapter.Env
}

var (
	_ federation.GroupLookup     = (*GroupProvider)(nil)
	_ federation.GroupQuery      = (*GroupProvider)(nil)
	_ federation.GroupMutation   = (*GroupProvider)(nil)
	_ federation.GroupBulkUpdate = (*GroupProvider)(nil)
)

// NewGroupProvider creates a new group storage provider
func NewGroupProvider(env adapter.Env) *GroupProvider {
	return &GroupProvider{env: env}
}

// GroupByID resolves a group from either ID space.
func (p *GroupProvider) GroupByID(realmID, id string) (federation.GroupModel, error) {
	group, err := adapter.ResolveGroupByID(p.env, id)
	if err != nil || group == nil || group.RealmID != realmID {
		return nil, err
	}
	return adapter.NewGroup(p.env, realmID, group), nil
}

// GroupByName looks a group up by name within a parent scope. A nil parent
// addresses the top level; an unresolvable parent reports absence.
func (p *GroupProvider) GroupByName(realmID string, parent federation.GroupModel, name string) (federation.GroupModel, error) {
	var parentID *uint
	if parent != nil {
		parentEntity, err := adapter.ResolveGroup(p.env, parent)
		if err != nil || parentEntity == nil {
			return nil, err
		}
		parentID = &parentEntity.ID
	}

	group, err := p.env.Groups.ByName(realmID, parentID, name)
	if err != nil || group == nil {
		return nil, err
	}
	return adapter.NewGroup(p.env, realmID, group), nil
}

// SearchGroups returns the realm's groups matching the filter, paginated.
func (p *GroupProvider) SearchGroups(realmID string, params federation.SearchParams) ([]federation.GroupModel, error) {
	groups, err := p.env.Groups.Search(realmID, params)
	if err != nil {
		return nil, err
	}
	return p.wrapAll(realmID, groups), nil
}

// TopLevelGroups returns the realm's top-level groups, paginated.
func (p *GroupProvider) TopLevelGroups(realmID string, params federation.SearchParams) ([]federation.GroupModel, error) {
	groups, err := p.env.Groups.TopLevel(realmID, params)
	if err != nil {
		return nil, err
	}
	return p.wrapAll(realmID, groups), nil
}

// GroupsByIDsOrSearch returns groups matching the ID set OR the text filter.
// Neither criterion yields an empty result, never the whole realm.
func (p *GroupProvider) GroupsByIDsOrSearch(realmID string, ids []string, search *string, params federation.SearchParams) ([]federation.GroupModel, error) {
	localIDs, err := p.localGroupIDs(ids)
	if err != nil {
		return nil, err
	}
	groups, err := p.env.Groups.ByIDsOrSearch(realmID, localIDs, search, params)
	if err != nil {
		return nil, err
	}
	return p.wrapAll(realmID, groups), nil
}

// AddGroup creates a group under the given parent. A taken name within the
// scope yields repository.ErrGroupExists and no entity. The consumer-facing
// ID is patched back after the insert; a patch failure is logged and the
// group remains usable by local key.
func (p *GroupProvider) AddGroup(realmID, name string, parent federation.GroupModel) (federation.GroupModel, error) {
	var parentEntity *models.Group
	if parent != nil {
		resolved, err := adapter.ResolveGroup(p.env, parent)
		if err != nil {
			return nil, err
		}
		if resolved == nil {
			log.Printf("add group %q: parent %q not resolvable, creating at top level", name, parent.Name())
		}
		parentEntity = resolved
	}

	group := &models.Group{Name: name, RealmID: realmID}
	if parentEntity != nil {
		group.ParentID = &parentEntity.ID
		group.ParentPath = repository.PathFor(parentEntity)
	}

	if err := p.env.Groups.Create(group); err != nil {
		return nil, err
	}

	fid := p.env.Codec.QualifiedID(group.ID)
	if err := p.env.Groups.SetFederatedID(group.ID, fid); err != nil {
		log.Printf("add group %q: store consumer id: %v", name, err)
	} else {
		group.FederatedID = &fid
	}
	return adapter.NewGroup(p.env, realmID, group), nil
}

// MoveGroup re-parents a group. The move is refused, as a logged no-op, when
// the group does not resolve, when a non-nil target parent does not resolve,
// when the parent belongs to another realm, or when it would create a cycle.
// A nil parent moves the group to the top level, clearing parent reference
// and parent-path; the moved subtree's paths are recomputed either way.
func (p *GroupProvider) MoveGroup(realmID string, gm federation.GroupModel, newParent federation.GroupModel) error {
	group, err := adapter.ResolveGroup(p.env, gm)
	if err != nil {
		return err
	}
	if group == nil || group.RealmID != realmID {
		log.Printf("move group in %q: group %q not resolvable, skipping", realmID, gm.Name())
		return nil
	}

	var parentEntity *models.Group
	if newParent != nil {
		parentEntity, err = adapter.ResolveGroup(p.env, newParent)
		if err != nil {
			return err
		}
		if parentEntity == nil || parentEntity.RealmID != realmID {
			log.Printf("move group %q: parent %q not resolvable, skipping", group.Name, newParent.Name())
			return nil
		}
		cyclic, err := p.env.Groups.IsDescendant(group.ID, parentEntity.ID)
		if err != nil {
			return err
		}
		if cyclic {
			log.Printf("move group %q: target parent %q is inside its subtree, skipping", group.Name, parentEntity.Name)
			return nil
		}
	}

	return p.env.Groups.Move(group, parentEntity)
}

// DeleteGroup removes a group and its subtree. Returns false when the
// reference does not resolve.
func (p *GroupProvider) DeleteGroup(realmID, id string) (bool, error) {
	group, err := adapter.ResolveGroupByID(p.env, id)
	if err != nil {
		return false, err
	}
	if group == nil || group.RealmID != realmID {
		return false, nil
	}
	return p.env.Groups.Delete(group.ID)
}

// RemoveRealm purges every group of the realm before the consumer removes
// the realm itself. Idempotent.
func (p *GroupProvider) RemoveRealm(realmID string) error {
	return p.env.Groups.DeleteAllByRealm(realmID)
}

// RemoveRole purges group↔role mapping rows before the consumer removes the
// role. An unresolvable role no-ops.
func (p *GroupProvider) RemoveRole(realmID string, rm federation.RoleModel) error {
	role, err := adapter.ResolveRole(p.env, rm)
	if err != nil {
		return err
	}
	if role == nil {
		log.Printf("remove role in %q: role %q not resolvable, skipping", realmID, rm.Name())
		return nil
	}
	return p.env.Groups.RemoveRoleAssignments(role.ID)
}

func (p *GroupProvider) wrapAll(realmID string, groups []models.Group) []federation.GroupModel {
	out := make([]federation.GroupModel, 0, len(groups))
	for i := range groups {
		out = append(out, adapter.NewGroup(p.env, realmID, &groups[i]))
	}
	return out
}

// localGroupIDs maps consumer ID strings to local keys, dropping
// unresolvable entries.
func (p *GroupProvider) localGroupIDs(ids []string) ([]uint, error) {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		group, err := adapter.ResolveGroupByID(p.env, id)
		if err != nil {
			return nil, err
		}
		if group != nil {
			out = append(out, group.ID)
		}
	}
	return out, nil
}
