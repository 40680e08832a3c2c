package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/admin/mtg-cli/internal/db"
)

var dbResetForce bool

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management commands",
	Long:  `Commands for managing the Postgres schema behind the mtg CLI.`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		handle, err := openSQL()
		if err != nil {
			return err
		}
		defer handle.Close()

		versionBefore, _ := db.GetMigrationVersion(handle)

		if err := db.RunMigrations(handle); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		versionAfter, err := db.GetMigrationVersion(handle)
		if err != nil {
			return fmt.Errorf("getting migration version: %w", err)
		}

		if versionBefore == versionAfter {
			fmt.Printf("Database is already at version %d (no migrations needed)\n", versionAfter)
		} else {
			fmt.Printf("Migrations complete: version %d -> %d\n", versionBefore, versionAfter)
		}
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema version and row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		handle, err := openSQL()
		if err != nil {
			return err
		}
		defer handle.Close()

		version, err := db.GetMigrationVersion(handle)
		if err != nil {
			fmt.Printf("Migration version: unknown (error: %v)\n", err)
		} else {
			fmt.Printf("Migration version: %d\n", version)
		}

		for _, table := range []string{"cards", "decks", "deck_cards", "deck_analysis", "deck_combos"} {
			exists, err := db.TableExists(ctx, handle, table)
			if err != nil || !exists {
				fmt.Printf("%-14s missing\n", table)
				continue
			}
			var count int
			if err := handle.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
				fmt.Printf("%-14s unknown (error: %v)\n", table, err)
				continue
			}
			fmt.Printf("%-14s %d rows\n", table, count)
		}
		return nil
	},
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all tables and re-run migrations (destructive)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		handle, err := openSQL()
		if err != nil {
			return err
		}
		defer handle.Close()

		exists, err := db.TableExists(ctx, handle, "cards")
		if err != nil {
			return fmt.Errorf("error checking if tables exist: %w", err)
		}
		if exists && !dbResetForce {
			return &exitError{code: 2, msg: "tables already exist; use --force to drop and recreate them"}
		}

		if exists {
			if err := db.DropTables(ctx, handle); err != nil {
				return fmt.Errorf("error dropping tables: %w", err)
			}
		}

		if err := db.RunMigrations(handle); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		version, err := db.GetMigrationVersion(handle)
		if err != nil {
			return fmt.Errorf("getting migration version: %w", err)
		}
		fmt.Printf("Database schema initialized at version %d\n", version)
		return nil
	},
}

func init() {
	dbResetCmd.Flags().BoolVar(&dbResetForce, "force", false, "Drop existing tables before recreating them")

	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbResetCmd)
}
