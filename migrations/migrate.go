// Package migrations embeds the versioned schemas of the client local store
// and of the reference server and applies them with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql server/sqlite/*.sql server/postgres/*.sql
var embedMigrations embed.FS

// Set names one schema: a directory inside the embedded FS and the goose
// dialect it is written for.
type Set struct {
	Dir     string
	Dialect string
}

var (
	// Client is the schema of the client local store.
	Client = Set{Dir: "client", Dialect: "sqlite3"}
	// ServerSQLite is the reference server schema for sqlite.
	ServerSQLite = Set{Dir: "server/sqlite", Dialect: "sqlite3"}
	// ServerPostgres is the reference server schema for postgres.
	ServerPostgres = Set{Dir: "server/postgres", Dialect: "pgx"}
)

// ErrNilDB is returned when no database handle was passed.
var ErrNilDB = errors.New("db is nil")

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func setup(set Set) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(set.Dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}
	return nil
}

// Migrate applies every pending migration of set.
func Migrate(ctx context.Context, db *sql.DB, set Set) error {
	if db == nil {
		return ErrNilDB
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setup(set); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, set.Dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// Version returns the schema version currently applied to db.
func Version(ctx context.Context, db *sql.DB, set Set) (int64, error) {
	if db == nil {
		return 0, ErrNilDB
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setup(set); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("migration error reading version: %w", err)
	}
	return version, nil
}
