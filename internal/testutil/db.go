// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"socialapp/internal/common"
	"socialapp/internal/dbmysql"
)

// NewDB returns a migrated in-memory SQLite database with foreign keys enforced.
// A single connection keeps every query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := dbmysql.Open(sqlite.Open(":memory:?_foreign_keys=on"), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbmysql.AutoMigrate(db))
	return db
}

// NewFileDB returns a migrated SQLite database in a temp dir that allows
// several open connections, so concurrent transactions really contend.
// Writers take the lock at BEGIN and wait up to five seconds for it.
func NewFileDB(t *testing.T, maxConns int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "socialapp.db")
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	db, err := dbmysql.Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(maxConns)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbmysql.AutoMigrate(db))
	return db
}

// CreateUser inserts a user whose email and names derive from username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *dbmysql.User {
	t.Helper()

	hash, err := common.HashPassword("password123")
	require.NoError(t, err)

	u := &dbmysql.User{
		FirstName:    "First" + username,
		LastName:     "Last" + username,
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		PasswordHash: hash,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreatePost(t *testing.T, db *gorm.DB, userID uint64, content string) *dbmysql.Post {
	t.Helper()

	p := &dbmysql.Post{UserID: userID, Content: &content}
	require.NoError(t, db.Omit("Author", "Comments").Create(p).Error)
	return p
}
