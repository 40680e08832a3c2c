// Package cmd wires the mtg CLI commands together.
package cmd

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/admin/mtg-cli/internal/buildinfo"
	"github.com/admin/mtg-cli/internal/config"
	"github.com/admin/mtg-cli/internal/db"
	"github.com/admin/mtg-cli/internal/logging"
)

// Flag variables shared across subcommands.
var (
	flagDBURL     string
	flagLogLevel  string
	flagLogFormat string
)

// cfg is the resolved configuration, populated before any RunE fires.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mtg",
	Short: "Manage a local MTG card database and Commander decks",
	Long: `mtg maintains a local Postgres card database fed from Scryfall bulk
dumps and provides card search and deck building on top of it.`,
	Version: buildinfo.Summary(),
	// Unknown subcommands fall through to the help banner with a zero
	// exit status, so `mtg garbage` behaves like `mtg` with no args.
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBURL, "db-url", "", "Postgres connection string (or set DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (or set MTG_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text, json (or set MTG_LOG_FORMAT)")

	// Bind env with Viper: MTG_DB_URL etc. also feed the flags. The key
	// replacer maps flag keys like db-url onto MTG_DB_URL.
	_ = viper.BindPFlag("db-url", rootCmd.PersistentFlags().Lookup("db-url"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.SetEnvPrefix("MTG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		// Env feeds unset flags through viper; explicit flags win.
		for key, flag := range map[string]*string{
			"db-url":     &flagDBURL,
			"log-level":  &flagLogLevel,
			"log-format": &flagLogFormat,
		} {
			if *flag == "" {
				*flag = viper.GetString(key)
			}
		}

		if flagDBURL != "" {
			cfg.DatabaseURL = flagDBURL
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		if flagLogFormat != "" {
			cfg.LogFormat = flagLogFormat
		}

		logging.Setup(cfg.LogLevel, cfg.LogFormat)
		return nil
	}

	rootCmd.AddCommand(cardSearchCmd)
	rootCmd.AddCommand(deckBuilderCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command with the provided args.
func Execute(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// openPool opens the pgx pool used by the search/import/deck paths.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	return db.NewPool(ctx, cfg.DatabaseURL)
}

// openSQL opens the database/sql handle used by analysis and goose.
func openSQL() (*sql.DB, error) {
	return db.OpenSQL(cfg.DatabaseURL)
}

// exitError carries a specific process exit code up to main.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// ExitCode returns the process exit code for this error.
func (e *exitError) ExitCode() int { return e.code }
