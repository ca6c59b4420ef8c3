// Package store provides persistence for the survey domain. Nested document
// structures are stored as JSON columns; the scalars queries filter on are
// real columns.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"                      // SQLite driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver

	"github.com/compra-app/compra-go/config"
)

// ErrNotFound marks lookups of entities that do not exist. Repositories
// return nil rather than this error; service layers wrap nil results with it
// so handlers can map it to a 404.
var ErrNotFound = errors.New("not found")

// Config selects the backing database.
type Config struct {
	SQLitePath    string
	TursoDatabase string
	TursoToken    string
}

// Database wraps the sql handle together with the typed repositories.
type Database struct {
	Conn     *sql.DB
	UseTurso bool

	Stores    *StoreRepository
	Surveys   *SurveyRepository
	Responses *ResponseRepository
	Analytics *AnalyticsRepository
}

// Open creates a database connection, trying Turso first and falling back to
// local SQLite, then ensures the schema exists.
func Open(cfg Config) (*Database, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	if cfg.TursoDatabase != "" && cfg.TursoToken != "" {
		connStr := cfg.TursoDatabase + "?authToken=" + cfg.TursoToken
		conn, err = sql.Open("libsql", connStr)
		if err == nil {
			if pingErr := conn.Ping(); pingErr == nil {
				useTurso = true
			} else {
				conn.Close()
				conn = nil
			}
		}
	}

	if conn == nil {
		dbDir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		conn, err = sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("SQLite database ping failed: %w", err)
		}
	}

	if cfg.SQLitePath == ":memory:" {
		// One shared connection; every pooled connection would otherwise
		// see its own empty in-memory database.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(config.DBMaxOpenConns)
		conn.SetMaxIdleConns(config.DBMaxIdleConns)
	}

	db := &Database{Conn: conn, UseTurso: useTurso}
	if err := db.ensureSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	db.Stores = &StoreRepository{db: conn}
	db.Surveys = &SurveyRepository{db: conn}
	db.Responses = &ResponseRepository{db: conn}
	db.Analytics = &AnalyticsRepository{db: conn}
	return db, nil
}

// OpenMemory opens an in-memory SQLite database, used by tests and the
// seeder's dry-run mode.
func OpenMemory() (*Database, error) {
	return Open(Config{SQLitePath: ":memory:"})
}

// Close closes the underlying connection.
func (db *Database) Close() error {
	if db.Conn != nil {
		return db.Conn.Close()
	}
	return nil
}

// ConnectionInfo returns a string describing the database connection.
func (db *Database) ConnectionInfo() string {
	if db.UseTurso {
		return "Turso"
	}
	return "SQLite"
}

// Timestamps are stored as RFC3339Nano text so both drivers round-trip them
// identically.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
