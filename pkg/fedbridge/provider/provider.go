// Package provider implements the orchestration surface the consumer runtime
// invokes: one storage provider per entity kind, each satisfying the narrow
// capability interfaces defined in the federation package.
//
// Entity resolution by ID always follows the same state machine: attempt
// external-ID extraction and look up by local key; on failure, look up by the
// previously stored consumer ID; if both fail the entity does not exist and
// the lookup reports absence, never an error.
package provider

import (
	"gorm.io/gorm"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/adapter"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/repository"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/storageid"
)

// batchSize is the page size for the one per-user bulk mutation loop
// (granting a role to every user of a realm).
const batchSize = 100

// NewEnv wires the repositories and codec for one provider instance.
func NewEnv(db *gorm.DB, providerID string) adapter.Env {
	return adapter.NewEnv(
		storageid.Codec{ProviderID: providerID},
		repository.NewUserRepository(db),
		repository.NewGroupRepository(db),
		repository.NewRoleRepository(db),
		repository.NewPermissionRepository(db),
	)
}

// New builds the three storage providers over one database handle.
func New(db *gorm.DB, providerID string) (*UserProvider, *GroupProvider, *RoleProvider) {
	env := NewEnv(db, providerID)
	return NewUserProvider(env), NewGroupProvider(env), NewRoleProvider(env)
}
