package database

import (
	"errors"
	"testing"
)

// The handle is process-wide, so the whole lifecycle runs in one test to
// keep ordering deterministic.
func TestConnectionLifecycle(t *testing.T) {
	if _, err := Get(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected before Connect, got %v", err)
	}

	if err := Connect("mysql", "dsn"); err == nil {
		t.Error("Expected error for unsupported driver")
	}

	if err := Connect("sqlite", ":memory:"); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	db, err := Get()
	if err != nil {
		t.Fatalf("Failed to get handle: %v", err)
	}
	if db == nil {
		t.Fatal("Expected non-nil handle after Connect")
	}

	// A second Connect is a no-op, the first handle stays
	if err := Connect("sqlite", "other.db"); err != nil {
		t.Errorf("Expected second Connect to be a no-op, got %v", err)
	}
	again, _ := Get()
	if again != db {
		t.Error("Expected Get to return the same handle after repeated Connect")
	}

	if err := Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}
	if _, err := Get(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected after Close, got %v", err)
	}

	// Closing again is safe
	if err := Close(); err != nil {
		t.Errorf("Expected Close when not connected to be a no-op, got %v", err)
	}
}
