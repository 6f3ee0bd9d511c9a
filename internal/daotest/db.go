// Package daotest provides in-memory databases and shared DAO test suites.
package daotest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mytheresa/go-catalog-mappings/config"
	"github.com/mytheresa/go-catalog-mappings/database"
)

var dbSeq atomic.Int64

// Config returns sqlite settings for a private in-memory database. A single
// connection is kept open so the database lives as long as the pool.
func Config() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         fmt.Sprintf("daotest_%d", dbSeq.Add(1)),
		Memory:       true,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		QueryLogSize: 50,
	}
}

// OpenDB returns a migrated in-memory database closed at the end of the test.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := Config()
	db, err := database.Open(&cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.AutoMigrate(db, ""))
	return db
}

// OpenNative returns a sqlx handle sharing db's connection pool.
func OpenNative(t testing.TB, db *gorm.DB) *sqlx.DB {
	t.Helper()

	ndb, err := database.ShareNative(db)
	require.NoError(t, err)
	return ndb
}
