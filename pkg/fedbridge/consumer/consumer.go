// Package consumer provides concrete stand-ins for objects the consumer
// runtime owns: groups and roles minted on the consumer side with opaque IDs
// and no local record yet. The sync adapters materialize them into the store
// the first time they are referenced.
package consumer

import (
	"github.com/google/uuid"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
)

// Group is a consumer-originated group object.
type Group struct {
	id          string
	name        string
	description string
	parentID    string
}

var _ federation.GroupModel = (*Group)(nil)

// NewGroup mints a consumer group with a fresh opaque ID.
func NewGroup(name string) *Group {
	return &Group{id: uuid.NewString(), name: name}
}

func (g *Group) ID() string          { return g.id }
func (g *Group) Name() string        { return g.name }
func (g *Group) Description() string { return g.description }
func (g *Group) ParentID() string    { return g.parentID }

// SetDescription sets the consumer-side description.
func (g *Group) SetDescription(description string) { g.description = description }

// SetParentID points the consumer object at a parent by consumer ID.
func (g *Group) SetParentID(parentID string) { g.parentID = parentID }

// Role is a consumer-originated role object. An empty clientID makes it a
// realm role.
type Role struct {
	id          string
	name        string
	description string
	clientID    string
}

var _ federation.RoleModel = (*Role)(nil)

// NewRealmRole mints a consumer realm role with a fresh opaque ID.
func NewRealmRole(name string) *Role {
	return &Role{id: uuid.NewString(), name: name}
}

// NewClientRole mints a consumer client role with a fresh opaque ID.
func NewClientRole(clientID, name string) *Role {
	return &Role{id: uuid.NewString(), name: name, clientID: clientID}
}

func (r *Role) ID() string          { return r.id }
func (r *Role) Name() string        { return r.name }
func (r *Role) Description() string { return r.description }
func (r *Role) ClientID() string    { return r.clientID }
func (r *Role) IsClientRole() bool  { return r.clientID != "" }

// SetDescription sets the consumer-side description.
func (r *Role) SetDescription(description string) { r.description = description }
