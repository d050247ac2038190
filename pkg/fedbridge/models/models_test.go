package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return db
}

func TestAutoMigrate(t *testing.T) {
	db := setupTestDB(t)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	// Verify tables exist, join tables included
	tables := []string{
		"users", "groups", "roles", "permissions", "user_profiles",
		"user_roles", "user_groups", "group_roles", "role_permissions",
	}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestUserRealmScopedUsername(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{Username: "alice", RealmID: "acme"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected user ID to be set after create")
	}

	// Same username in another realm is fine
	other := User{Username: "alice", RealmID: "globex"}
	if err := db.Create(&other).Error; err != nil {
		t.Errorf("Expected same username in another realm to be allowed: %v", err)
	}

	// Duplicate within the realm is rejected by the index
	dup := User{Username: "alice", RealmID: "acme"}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating duplicate username in realm")
	}
}

func TestUserEnabled(t *testing.T) {
	user := User{Username: "alice", RealmID: "acme"}
	if !user.Enabled() {
		t.Error("Expected new user to be enabled")
	}

	user.Locked = true
	if user.Enabled() {
		t.Error("Expected locked user to be disabled")
	}
}

func TestRoleScopedName(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	realm := Role{Name: "admin", RealmID: "acme"}
	if err := db.Create(&realm).Error; err != nil {
		t.Fatalf("Failed to create realm role: %v", err)
	}
	if realm.IsClientRole() {
		t.Error("Expected role without client to be a realm role")
	}

	// A client role may share the realm role's name
	client := Role{Name: "admin", RealmID: "acme", ClientID: "billing"}
	if err := db.Create(&client).Error; err != nil {
		t.Errorf("Expected client role with same name to be allowed: %v", err)
	}
	if !client.IsClientRole() {
		t.Error("Expected role with client to be a client role")
	}

	// Duplicate within the same scope is rejected
	dup := Role{Name: "admin", RealmID: "acme", ClientID: "billing"}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating duplicate role in client scope")
	}
}

func TestGroupTree(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	parent := Group{Name: "engineering", RealmID: "acme"}
	if err := db.Create(&parent).Error; err != nil {
		t.Fatalf("Failed to create group: %v", err)
	}

	child := Group{Name: "backend", RealmID: "acme", ParentID: &parent.ID, ParentPath: "/engineering"}
	if err := db.Create(&child).Error; err != nil {
		t.Fatalf("Failed to create child group: %v", err)
	}

	var loaded Group
	if err := db.Preload("Parent").First(&loaded, child.ID).Error; err != nil {
		t.Fatalf("Failed to load child group: %v", err)
	}
	if loaded.Parent == nil || loaded.Parent.ID != parent.ID {
		t.Error("Expected child group to reference its parent")
	}
	if loaded.ParentPath != "/engineering" {
		t.Errorf("Expected parent path /engineering, got %q", loaded.ParentPath)
	}
}

func TestUserProfileUniquePerUser(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{Username: "alice", RealmID: "acme"}
	db.Create(&user)

	profile := UserProfile{UserID: user.ID, FirstName: "Alice"}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}

	second := UserProfile{UserID: user.ID, FirstName: "Other"}
	if err := db.Create(&second).Error; err == nil {
		t.Error("Expected error when creating second profile for the same user")
	}
}
