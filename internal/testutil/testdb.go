// Package testutil はテスト用のDBとフィクスチャを提供する。
package testutil

import (
	"database/sql"
	"testing"

	"github.com/hitoshi/timesheet/internal/database"
)

// NewTestDB はマイグレーション適用済みのインメモリSQLiteを返す。
// テスト終了時に自動でクローズされる。
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(database.MemoryDSN)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
