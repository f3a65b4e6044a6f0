// Package storage persists categories and expenses in SQLite and executes the
// filter and aggregate queries the services are built on.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	sqlite3 "modernc.org/sqlite"
)

// SQLite extended result codes for constraint violations.
const (
	sqliteConstraintUnique     = 2067
	sqliteConstraintForeignKey = 787
)

type Repository struct {
	db *sql.DB
}

// New opens (creating if needed) the SQLite database at dbPath and brings the
// schema up to date.
func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// dsn enables foreign key enforcement (required for the category -> expense
// cascade) and a busy timeout on every connection.
func dsn(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// builder is the shared squirrel statement builder (SQLite uses ? placeholders).
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// mapConstraintErr translates SQLite constraint violations into domain errors
// so that store failures never leak to callers as raw driver errors.
func mapConstraintErr(err error, onUnique, onForeignKey error) error {
	var serr *sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqliteConstraintUnique:
			if onUnique != nil {
				return onUnique
			}
		case sqliteConstraintForeignKey:
			if onForeignKey != nil {
				return onForeignKey
			}
		}
	}
	return err
}
