package export

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voicescribe/cmd/voicescribe/cmd/cmdutil"
	"voicescribe/internal/app"
	"voicescribe/internal/app/converter/export"
	"voicescribe/internal/app/util/files"
)

var (
	outputFilePath string
	limit          int
)

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "output file; the extension picks the format (.xlsx, .csv, .json)")
	Cmd.Flags().IntVarP(&limit, "limit", "n", 0, "export only the newest N transcripts, 0 for all")

	Cmd.MarkFlagRequired("output")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export transcript history to Excel, CSV or JSON",
	Long: `Export transcript history to Excel, CSV or JSON

- Rows are written newest first
- Timestamps are RFC 3339 in UTC`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := export.FormatFromPath(outputFilePath); err != nil {
			return err
		}

		cfg, logger, err := cmdutil.Load()
		if err != nil {
			return err
		}
		defer cmdutil.Sync(logger)

		store, cleanup, err := app.ProvideHistoryStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := store.ListRecent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if err := files.EnsureDir(filepath.Dir(outputFilePath)); err != nil {
			return err
		}
		if err := export.ToFile(records, outputFilePath); err != nil {
			return err
		}

		logger.Debug("export finished", zap.String("path", outputFilePath), zap.Int("records", len(records)))
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d transcripts to %s\n", len(records), outputFilePath)
		return nil
	},
}
