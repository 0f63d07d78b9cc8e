package db

import (
	"fmt"

	"problemtracker/internal/domain/errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migration applies every pending up-migration found in migratePath.
func Migration(dsn, migratePath string) error {
	if dsn == "" || migratePath == "" {
		return errors.ErrInvalidInput
	}

	m, err := migrate.New("file://"+migratePath, dsn)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
