package database

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotConnected is returned by Get when Connect has not been called.
var ErrNotConnected = errors.New("database: not connected")

var (
	mu sync.Mutex
	db *gorm.DB
)

// Connect initializes the process-wide database handle. The first successful
// call wins; later calls are no-ops so concurrent request paths can share one
// pooled handle. Supported drivers: "sqlite" (default) and "postgres".
func Connect(driver, dsn string) error {
	mu.Lock()
	defer mu.Unlock()

	if db != nil {
		return nil
	}

	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("database: unsupported driver %q", driver)
	}

	handle, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	db = handle
	return nil
}

// Get returns the shared database handle.
func Get() (*gorm.DB, error) {
	mu.Lock()
	defer mu.Unlock()

	if db == nil {
		return nil, ErrNotConnected
	}
	return db, nil
}

// Close tears down the shared handle. Safe to call when not connected, so
// tests and shutdown hooks can always defer it.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
