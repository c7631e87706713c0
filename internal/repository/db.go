package repository

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// NewDB opens the plate records database. driver is "sqlite" (default, DSN
// is a file path) or "mysql" (DSN in go-sql-driver format). The schema is
// created if missing.
func NewDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "sqlite":
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database dir: %w", err)
			}
		}
	case "mysql":
		// go-sql-driver registers itself as "mysql".
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		slog.Warn("database ping failed, continuing without DB", "driver", driver, "error", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}

// migrate creates the plates table. Column types are the portable subset
// that sqlite and MySQL both accept.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS plates (
		id           VARCHAR(36) PRIMARY KEY,
		user_id      VARCHAR(36) NOT NULL,
		plate_number VARCHAR(64) NOT NULL,
		image_url    TEXT        NOT NULL,
		created_at   VARCHAR(40) NOT NULL
	)`)
	return err
}
