// Package db selects and wires the configured storage backend.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/cinefavs/catalog-api/internal/core/ports"
	"github.com/cinefavs/catalog-api/internal/infrastructure/config"
	"github.com/cinefavs/catalog-api/internal/infrastructure/db/migrations"
	"github.com/cinefavs/catalog-api/internal/infrastructure/db/mongo"
	"github.com/cinefavs/catalog-api/internal/infrastructure/db/postgres"
	"github.com/cinefavs/catalog-api/internal/infrastructure/db/sqlite"
)

// Store bundles the repositories of one backend with its lifecycle.
type Store struct {
	Users     ports.UserRepository
	Favorites ports.FavoriteRepository
	Movies    ports.MovieRepository
	Audit     ports.AuditRepository

	driver string
	ping   func(ctx context.Context) error
	close  func(ctx context.Context) error
}

// Open connects to the backend named by cfg.Driver and brings its schema up
// to date.
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:     sqlite.NewUserRepository(db),
			Favorites: sqlite.NewFavoriteRepository(db),
			Movies:    sqlite.NewMovieRepository(db),
			Audit:     sqlite.NewAuditRepository(db),
			driver:    cfg.Driver,
			ping:      db.PingContext,
			close:     func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:     postgres.NewUserRepository(pool),
			Favorites: postgres.NewFavoriteRepository(pool),
			Movies:    postgres.NewMovieRepository(pool),
			Audit:     postgres.NewAuditRepository(pool),
			driver:    cfg.Driver,
			ping:      pool.Ping,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverMongo:
		client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, mdb); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Users:     mongo.NewUserRepository(mdb),
			Favorites: mongo.NewFavoriteRepository(mdb),
			Movies:    mongo.NewMovieRepository(mdb),
			Audit:     mongo.NewAuditRepository(mdb),
			driver:    cfg.Driver,
			ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:     client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

func (s *Store) Driver() string { return s.driver }

func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateVersion = "version"
)

// Migrate runs a single schema command against the configured backend and
// returns the resulting schema version. For Mongo every command just ensures
// the indexes exist.
func Migrate(ctx context.Context, cfg config.StoreConfig, command string, log zerolog.Logger) (int64, error) {
	if cfg.Driver == config.DriverMongo {
		client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
		if err != nil {
			return 0, err
		}
		defer client.Disconnect(ctx)
		return 0, mongo.EnsureIndexes(ctx, mdb)
	}

	sqlDB, dialect, closeFn, err := dialSQL(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	switch command {
	case MigrateUp:
		if err := migrations.Up(ctx, sqlDB, dialect, log); err != nil {
			return 0, err
		}
	case MigrateDown:
		if err := migrations.Down(ctx, sqlDB, dialect, log); err != nil {
			return 0, err
		}
	case MigrateVersion:
	default:
		return 0, fmt.Errorf("unknown migrate command %q", command)
	}
	return migrations.Version(ctx, sqlDB, dialect, log)
}

func dialSQL(ctx context.Context, cfg config.StoreConfig) (*sql.DB, migrations.Dialect, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Dial(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, "", nil, err
		}
		return db, migrations.SQLite, func() { _ = db.Close() }, nil
	case config.DriverPostgres:
		pool, err := postgres.Dial(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, "", nil, err
		}
		db := stdlib.OpenDBFromPool(pool)
		return db, migrations.Postgres, func() {
			_ = db.Close()
			pool.Close()
		}, nil
	}
	return nil, "", nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
