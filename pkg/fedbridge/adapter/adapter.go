// Package adapter presents repository records as consumer-shaped identity
// objects, and lazily materializes consumer-originated groups and roles into
// the local store the first time they are referenced.
package adapter

import (
	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/repository"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/storageid"
)

// Env bundles what adapters need to reach back into the store. One Env is
// shared per provider instance; adapters themselves wrap one record fetched
// fresh per request and are never shared across requests.
type Env struct {
	Codec       storageid.Codec
	Users       *repository.UserRepository
	Groups      *repository.GroupRepository
	Roles       *repository.RoleRepository
	Permissions *repository.PermissionRepository
	Attributes  federation.AttributeStore
}

// NewEnv builds an adapter environment over one set of repositories.
func NewEnv(codec storageid.Codec, users *repository.UserRepository, groups *repository.GroupRepository, roles *repository.RoleRepository, perms *repository.PermissionRepository) Env {
	return Env{
		Codec:       codec,
		Users:       users,
		Groups:      groups,
		Roles:       roles,
		Permissions: perms,
	}
}

// consumerID returns the consumer-facing identifier for a local record:
// the stored consumer-assigned ID when one exists, otherwise the
// provider-qualified form of the local key.
func (e Env) consumerID(federatedID *string, localKey uint) string {
	if federatedID != nil && *federatedID != "" {
		return *federatedID
	}
	return e.Codec.QualifiedID(localKey)
}

// ResolveRole maps a consumer-held role object to its local record without
// creating one. Every lookup first attempts external-ID extraction; if the ID
// is unqualified or foreign it falls back to the stored consumer ID. An
// unresolvable object yields nil, which membership tests treat as "not a
// member", never as an error.
func ResolveRole(env Env, rm federation.RoleModel) (*models.Role, error) {
	if ra, ok := rm.(*RoleAdapter); ok {
		return ra.Entity(), nil
	}
	return ResolveRoleByID(env, rm.ID())
}

// ResolveRoleByID resolves a role from either ID space.
func ResolveRoleByID(env Env, id string) (*models.Role, error) {
	if key := env.Codec.ExternalID(id); key != "" {
		role, err := env.Roles.ByKey(key)
		if err != nil || role != nil {
			return role, err
		}
	}
	return env.Roles.ByFederatedID(id)
}

// ResolveGroup maps a consumer-held group object to its local record without
// creating one.
func ResolveGroup(env Env, gm federation.GroupModel) (*models.Group, error) {
	if ga, ok := gm.(*GroupAdapter); ok {
		return ga.Entity(), nil
	}
	return ResolveGroupByID(env, gm.ID())
}

// ResolveGroupByID resolves a group from either ID space.
func ResolveGroupByID(env Env, id string) (*models.Group, error) {
	if key := env.Codec.ExternalID(id); key != "" {
		group, err := env.Groups.ByKey(key)
		if err != nil || group != nil {
			return group, err
		}
	}
	return env.Groups.ByFederatedID(id)
}

// ResolveUserByID resolves a user from either ID space.
func ResolveUserByID(env Env, id string) (*models.User, error) {
	if key := env.Codec.ExternalID(id); key != "" {
		user, err := env.Users.ByKey(key)
		if err != nil || user != nil {
			return user, err
		}
	}
	return env.Users.ByFederatedID(id)
}
