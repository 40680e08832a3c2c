package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/admin/mtg-cli/internal/scryfall"
)

var (
	syncSkipDownload bool
	syncDownloadOnly bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the Scryfall bulk dump and import it",
	Long: `Fetch the Scryfall default_cards bulk dump into the dump directory
(keeping a small retention window of dated files) and import it into
the cards table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncSkipDownload && syncDownloadOnly {
			return fmt.Errorf("--skip-download and --download-only are mutually exclusive")
		}

		ctx := cmd.Context()

		dumpPath := ""
		if syncSkipDownload {
			latest, err := scryfall.FindLatestDump(cfg.DumpDir)
			if err != nil {
				return err
			}
			dumpPath = latest
		} else {
			written, err := scryfall.NewDownloader(cfg.DumpDir).DumpBulkCards(ctx)
			if err != nil {
				return err
			}
			dumpPath = written
		}

		if syncDownloadOnly {
			return nil
		}

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		return scryfall.ImportCards(ctx, pool, dumpPath)
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncSkipDownload, "skip-download", false, "Import the latest local dump without downloading")
	syncCmd.Flags().BoolVar(&syncDownloadOnly, "download-only", false, "Download the dump without importing")
}
