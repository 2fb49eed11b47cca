package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // PostgreSQL driver for database/sql

	"blog-backend/pkg/logger"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migration is one versioned up file of the embedded source
type Migration struct {
	Version uint
	Name    string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// OpenSQL opens a database/sql handle with the lib/pq driver. Used by the
// operator CLI, which runs outside the pgx pool.
func OpenSQL(ctx context.Context, cfg *DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func migrationSource() (source.Driver, error) {
	src, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return src, nil
}

// Migrations lists the embedded up migrations in apply order
func Migrations() ([]Migration, error) {
	src, err := migrationSource()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var out []Migration
	version, err := src.First()
	for err == nil {
		r, name, readErr := src.ReadUp(version)
		if readErr != nil {
			return nil, fmt.Errorf("read migration %d: %w", version, readErr)
		}
		r.Close()
		out = append(out, Migration{Version: version, Name: name})
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("walk migrations: %w", err)
	}
	return out, nil
}

// RunMigrations applies every pending embedded migration through
// golang-migrate and returns how many were applied. The migrate instance
// owns db afterwards and closes it.
func RunMigrations(db *sql.DB) (int, error) {
	src, err := migrationSource()
	if err != nil {
		db.Close()
		return 0, err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		src.Close()
		db.Close()
		return 0, fmt.Errorf("init migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		src.Close()
		driver.Close()
		return 0, fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	before, err := currentVersion(m)
	if err != nil {
		return 0, err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	after, err := currentVersion(m)
	if err != nil {
		return 0, err
	}

	all, err := Migrations()
	if err != nil {
		return 0, err
	}
	applied := CountBetween(all, before, after)

	logger.Info("[MIGRATE] Done", map[string]interface{}{
		"from":    before,
		"to":      after,
		"applied": applied,
	})
	return applied, nil
}

func currentVersion(m *migrate.Migrate) (uint, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("schema version %d is dirty; repair it by hand before migrating", version)
	}
	return version, nil
}

// CountBetween counts migrations with before < version <= after
func CountBetween(all []Migration, before, after uint) int {
	n := 0
	for _, mg := range all {
		if mg.Version > before && mg.Version <= after {
			n++
		}
	}
	return n
}
