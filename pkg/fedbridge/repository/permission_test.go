package repository

import (
	"errors"
	"testing"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

func TestPermissionCreateConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPermissionRepository(db)

	perm := &models.Permission{Name: "Edit articles", Code: "articles.edit", Module: "articles"}
	if err := repo.Create(perm); err != nil {
		t.Fatalf("Failed to create permission: %v", err)
	}

	err := repo.Create(&models.Permission{Name: "Other", Code: "articles.edit"})
	if !errors.Is(err, ErrPermissionExists) {
		t.Errorf("Expected ErrPermissionExists for duplicate code, got %v", err)
	}

	found, err := repo.ByCode("articles.edit")
	if err != nil {
		t.Fatalf("ByCode failed: %v", err)
	}
	if found == nil || found.ID != perm.ID {
		t.Error("Expected code lookup to find the permission")
	}

	found, err = repo.ByCode("")
	if err != nil || found != nil {
		t.Error("Expected empty code lookup to report absence")
	}
}

func TestPermissionList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPermissionRepository(db)

	for _, p := range []models.Permission{
		{Name: "Edit articles", Code: "articles.edit"},
		{Name: "View articles", Code: "articles.view"},
		{Name: "Manage users", Code: "users.manage"},
	} {
		perm := p
		if err := repo.Create(&perm); err != nil {
			t.Fatalf("Failed to create %s: %v", p.Code, err)
		}
	}

	perms, err := repo.List(federation.SearchParams{Text: "articles"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(perms) != 2 {
		t.Errorf("Expected 2 article permissions, got %d", len(perms))
	}

	perms, err = repo.List(federation.SearchParams{Max: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(perms) != 1 {
		t.Errorf("Expected 1 permission with Max=1, got %d", len(perms))
	}
}

func TestEffectivePermissionsForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPermissionRepository(db)
	users := NewUserRepository(db)
	groups := NewGroupRepository(db)
	roles := NewRoleRepository(db)

	p1 := &models.Permission{Name: "Edit", Code: "articles.edit"}
	repo.Create(p1)
	p2 := &models.Permission{Name: "View", Code: "articles.view"}
	repo.Create(p2)
	unrelated := &models.Permission{Name: "Manage", Code: "users.manage"}
	repo.Create(unrelated)

	// Direct role carries p1 and p2, group role carries p2 again
	direct := &models.Role{Name: "editor", RealmID: "acme"}
	roles.Create(direct)
	roles.AddPermission(direct, p1)
	roles.AddPermission(direct, p2)

	inherited := &models.Role{Name: "viewer", RealmID: "acme"}
	roles.Create(inherited)
	roles.AddPermission(inherited, p2)

	orphan := &models.Role{Name: "ops", RealmID: "acme"}
	roles.Create(orphan)
	roles.AddPermission(orphan, unrelated)

	group := &models.Group{Name: "staff", RealmID: "acme"}
	groups.Create(group)
	groups.AssignRole(group, inherited)

	user := &models.User{Username: "alice", RealmID: "acme"}
	users.Create(user)
	users.GrantRole(user, direct)
	users.JoinGroup(user, group)

	perms, err := repo.EffectiveForUser(user.ID)
	if err != nil {
		t.Fatalf("EffectiveForUser failed: %v", err)
	}
	if len(perms) != 2 {
		t.Fatalf("Expected duplicate grants to collapse to 2 permissions, got %d", len(perms))
	}
	if perms[0].Code != "articles.edit" || perms[1].Code != "articles.view" {
		t.Errorf("Expected [articles.edit articles.view], got %+v", perms)
	}
}

func TestPermissionForRole(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPermissionRepository(db)
	roles := NewRoleRepository(db)

	perm := &models.Permission{Name: "Edit", Code: "articles.edit"}
	repo.Create(perm)
	role := &models.Role{Name: "editor", RealmID: "acme"}
	roles.Create(role)
	roles.AddPermission(role, perm)

	perms, err := repo.ForRole(role.ID)
	if err != nil {
		t.Fatalf("ForRole failed: %v", err)
	}
	if len(perms) != 1 || perms[0].Code != "articles.edit" {
		t.Errorf("Expected [articles.edit], got %+v", perms)
	}

	roles.RemovePermission(role, perm)
	perms, _ = repo.ForRole(role.ID)
	if len(perms) != 0 {
		t.Errorf("Expected no permissions after removal, got %d", len(perms))
	}
}

func TestPermissionDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPermissionRepository(db)
	roles := NewRoleRepository(db)

	perm := &models.Permission{Name: "Edit", Code: "articles.edit"}
	repo.Create(perm)
	role := &models.Role{Name: "editor", RealmID: "acme"}
	roles.Create(role)
	roles.AddPermission(role, perm)

	deleted, err := repo.Delete(perm.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("Expected delete to report true")
	}
	if countRows(t, db, "role_permissions") != 0 {
		t.Error("Expected attachment rows purged with the permission")
	}

	deleted, err = repo.Delete(perm.ID)
	if err != nil {
		t.Fatalf("Second delete failed: %v", err)
	}
	if deleted {
		t.Error("Expected second delete to report false")
	}
}
