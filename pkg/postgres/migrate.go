package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations brings the url_mappings schema up to date before the
// service starts taking requests. path is a golang-migrate source URL,
// e.g. file://migrations. An already-current schema is not an error.
func RunMigrations(path string, dsn string) error {
	const op = "postgres.RunMigrations"

	m, err := migrate.New(path, dsn)
	if err != nil {
		return fmt.Errorf("%s: failed to initialize migrations: %w", op, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: failed to apply migrations: %w", op, err)
	}

	return nil
}
