package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/admin/mtg-cli/internal/logging"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// RunMigrations runs all pending database migrations.
func RunMigrations(handle *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	log := logging.WithComponent("db")

	versionBefore, err := goose.GetDBVersion(handle)
	if err != nil {
		log.Debug("could not get migration version before", "error", err)
		versionBefore = 0
	}

	log.Info("running migrations", "version_before", versionBefore)

	if err := goose.Up(handle, "migrations"); err != nil {
		log.Error("failed to run migrations", "error", err)
		return fmt.Errorf("running migrations: %w", err)
	}

	versionAfter, err := goose.GetDBVersion(handle)
	if err != nil {
		log.Debug("could not get migration version after", "error", err)
	} else {
		log.Info("migrations complete", "version_after", versionAfter)
	}

	return nil
}

// GetMigrationVersion returns the current migration version.
func GetMigrationVersion(handle *sql.DB) (int64, error) {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("setting goose dialect: %w", err)
	}

	version, err := goose.GetDBVersion(handle)
	if err != nil {
		return 0, fmt.Errorf("getting migration version: %w", err)
	}

	return version, nil
}
