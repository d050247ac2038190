package adapter

import (
	"testing"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/consumer"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/repository"
)

func TestGroupAdapterTree(t *testing.T) {
	env, _ := setupTestEnv(t)

	parent := &models.Group{Name: "engineering", RealmID: "acme"}
	if err := env.Groups.Create(parent); err != nil {
		t.Fatalf("Failed to create parent: %v", err)
	}
	child := &models.Group{Name: "backend", RealmID: "acme", ParentID: &parent.ID, ParentPath: repository.PathFor(parent)}
	if err := env.Groups.Create(child); err != nil {
		t.Fatalf("Failed to create child: %v", err)
	}

	pa := NewGroup(env, "acme", parent)
	ca := NewGroup(env, "acme", child)

	if pa.ParentID() != "" {
		t.Errorf("Expected top-level group to have no parent ID, got %q", pa.ParentID())
	}
	if ca.ParentID() != pa.ID() {
		t.Errorf("Expected child parent ID %q, got %q", pa.ID(), ca.ParentID())
	}

	loadedParent, err := ca.Parent()
	if err != nil {
		t.Fatalf("Parent failed: %v", err)
	}
	if loadedParent == nil || loadedParent.Name() != "engineering" {
		t.Error("Expected child to load its parent")
	}

	subs, err := pa.SubGroups()
	if err != nil {
		t.Fatalf("SubGroups failed: %v", err)
	}
	if len(subs) != 1 || subs[0].Name() != "backend" {
		t.Errorf("Expected [backend] as children, got %d", len(subs))
	}
}

func TestGroupAdapterSetters(t *testing.T) {
	env, _ := setupTestEnv(t)

	group := &models.Group{Name: "staff", RealmID: "acme"}
	env.Groups.Create(group)
	ga := NewGroup(env, "acme", group)

	if err := ga.SetDescription("All staff"); err != nil {
		t.Fatalf("SetDescription failed: %v", err)
	}
	loaded, _ := env.Groups.ByID(group.ID)
	if loaded.Description != "All staff" {
		t.Errorf("Expected description persisted, got %q", loaded.Description)
	}
}

func TestGroupAdapterRoles(t *testing.T) {
	env, db := setupTestEnv(t)

	group := &models.Group{Name: "staff", RealmID: "acme"}
	env.Groups.Create(group)
	ga := NewGroup(env, "acme", group)

	role := consumer.NewRealmRole("editor")
	if err := ga.AssignRole(role); err != nil {
		t.Fatalf("AssignRole failed: %v", err)
	}
	if got := len(ga.RoleMappings()); got != 1 {
		t.Errorf("Expected 1 role mapping, got %d", got)
	}

	// Assigning a consumer role materializes it locally
	var count int64
	db.Model(&models.Role{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected materialized role, got %d roles", count)
	}

	if err := ga.RemoveRole(role); err != nil {
		t.Fatalf("RemoveRole failed: %v", err)
	}
	if got := len(ga.RoleMappings()); got != 0 {
		t.Errorf("Expected no mappings after removal, got %d", got)
	}

	// Removing a role with no local counterpart is a no-op
	if err := ga.RemoveRole(consumer.NewRealmRole("ghost")); err != nil {
		t.Errorf("Expected unresolvable removal to no-op, got %v", err)
	}
}
