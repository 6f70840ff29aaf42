// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	gormpersistence "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
)

// NewTestDatabase opens an in-memory SQLite database with the full
// schema migrated and reference data seeded. Each call gets a fresh
// database, so tests stay independent.
func NewTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gormpersistence.Open(gormpersistence.DatabaseOptions{
		Driver:   "sqlite",
		DSN:      ":memory:",
		LogLevel: gormlogger.Silent,
	})
	require.NoError(t, err, "open test database")

	require.NoError(t, gormpersistence.SeedReferenceData(db), "seed reference data")
	return db
}
