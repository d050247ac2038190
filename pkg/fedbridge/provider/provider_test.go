package provider

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	return db
}

func setupProviders(t *testing.T) (*UserProvider, *GroupProvider, *RoleProvider, *gorm.DB) {
	db := setupTestDB(t)
	users, groups, roles := New(db, "fedbridge")
	return users, groups, roles, db
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var count int64
	if err := db.Table(table).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return count
}
