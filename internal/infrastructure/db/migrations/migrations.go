// Package migrations holds the embedded goose migrations for the relational
// stores.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

func (d Dialect) dir() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// goose keeps the base FS, dialect and logger in package globals.
var mu sync.Mutex

func prepare(d Dialect, log zerolog.Logger) error {
	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect(string(d)); err != nil {
		return fmt.Errorf("set goose dialect %s: %w", d, err)
	}
	return nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, d Dialect, log zerolog.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	if err := prepare(d, log); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, d.dir()); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, d Dialect, log zerolog.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	if err := prepare(d, log); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, d.dir()); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version reports the currently applied schema version.
func Version(ctx context.Context, db *sql.DB, d Dialect, log zerolog.Logger) (int64, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := prepare(d, log); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("migrate version: %w", err)
	}
	return v, nil
}

type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Debug().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal().Msgf(format, v...)
}
