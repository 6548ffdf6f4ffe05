// Package storage owns the site's SQLite database: visitor analytics,
// project view counts and contact messages.
package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// TimeFormat is how timestamps are written to the database. It is fixed
// width so stored UTC values compare correctly as strings.
const TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ParseTime reads a timestamp column. The driver may hand back DATETIME
// columns already converted, which database/sql renders as RFC 3339.
func ParseTime(s string) time.Time {
	for _, layout := range []string{TimeFormat, time.RFC3339Nano} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// DB wraps the SQLite handle shared by the analytics and contact stores.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the database at path and applies pending
// migrations. Pass ":memory:" for an in-memory database.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrapf(err, "creating database directory %s", dir)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "pinging database")
	}

	// One connection: writes are small and an in-memory database would
	// otherwise be private to each connection.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "setting busy timeout")
	}

	db := &DB{DB: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "running migrations")
	}
	return db, nil
}

func (db *DB) migrate() error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return errors.Wrap(err, "creating schema_version table")
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return errors.Wrap(err, "reading migrations directory")
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d_", &version); err != nil {
			return errors.Wrapf(err, "parsing migration version from %q", entry.Name())
		}

		var applied int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&applied); err != nil {
			return errors.Wrapf(err, "checking migration %d", version)
		}
		if applied > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return errors.Wrapf(err, "reading migration %s", entry.Name())
		}

		tx, err := db.Begin()
		if err != nil {
			return errors.Wrapf(err, "beginning migration %d", version)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "applying migration %d", version)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "recording migration %d", version)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "committing migration %d", version)
		}
	}
	return nil
}

// AppliedMigrations returns the applied migration versions in ascending order.
func (db *DB) AppliedMigrations() ([]int, error) {
	rows, err := db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
