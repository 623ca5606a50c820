package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all up migrations found at migrationsPath to the
// journal at dbPath.
func RunMigrations(dbPath, migrationsPath string) error {
	if err := ensureDir(dbPath); err != nil {
		return err
	}
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		fmt.Sprintf("sqlite3://%s", dbPath),
	)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	defer m.Close()
	return up(m)
}

// RunMigrationsWithDB migrates an already open journal, such as an
// in-memory one.
func RunMigrationsWithDB(db *sql.DB, migrationsPath string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite3",
		driver,
	)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	return up(m)
}

func up(m *migrate.Migrate) error {
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Version reports the applied schema version.
func Version(dbPath, migrationsPath string) (uint, bool, error) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		fmt.Sprintf("sqlite3://%s", dbPath),
	)
	if err != nil {
		return 0, false, fmt.Errorf("load migrations: %w", err)
	}
	defer m.Close()
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
