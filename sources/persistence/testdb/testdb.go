// Package testdb opens a migrated in-memory sqlite database for package tests.
package testdb

import (
	"fmt"
	"testing"

	"domainhub/sources/configuration"
	"domainhub/sources/persistence"
	"domainhub/sources/tracing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	config := &configuration.DatabaseConfig{
		Driver:     "sqlite",
		SqlitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}

	db, err := persistence.Open(config, tracing.NewNopLogger())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := persistence.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}
