package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// MemoryDSN はインメモリSQLiteのDSN。テストとローカル試用に使用する。
const MemoryDSN = ":memory:"

// SQLiteDSN はDATABASE_URLからmodernc.org/sqliteに渡すDSNを取り出す。
//
//	sqlite::memory:          → :memory:
//	sqlite:///var/data/ts.db → /var/data/ts.db
//	sqlite://data/ts.db      → data/ts.db
//	file:ts.db?mode=rwc      → そのまま
func SQLiteDSN(databaseURL string) string {
	switch {
	case strings.HasPrefix(databaseURL, "file:"):
		return databaseURL
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return strings.TrimPrefix(databaseURL, "sqlite://")
	default:
		return strings.TrimPrefix(databaseURL, "sqlite:")
	}
}

// OpenSQLite はSQLiteデータベースを開き、マイグレーションを適用する。
// SQLiteは書き込みが直列化されるため接続数は1に制限する。
// インメモリDBでは接続ごとに別DBになるため、この制限が必須となる。
func OpenSQLite(dsn string) (*sql.DB, error) {
	inMemory := dsn == MemoryDSN || strings.Contains(dsn, "mode=memory")

	if !inMemory && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if !inMemory {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := MigrateSQLite(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
