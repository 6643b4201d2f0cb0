package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"voicescribe/cmd/voicescribe/cmd/cmdutil"
	"voicescribe/internal/app"
	"voicescribe/internal/app/repository"
	"voicescribe/internal/app/repository/migrate"
)

var (
	from      string
	to        string
	batchSize int
)

func init() {
	Cmd.Flags().StringVar(&from, "from", "", "source DATABASE_URL")
	Cmd.Flags().StringVar(&to, "to", "", "destination DATABASE_URL (default: the configured one)")
	Cmd.Flags().IntVar(&batchSize, "batch-size", migrate.DefaultBatchSize, "records per write")

	Cmd.MarkFlagRequired("from")
}

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy transcript history between storage backends",
	Long: `Copy transcript history between storage backends

- Ids and timestamps are preserved
- The destination should start empty`,
	Example: `  voicescribe migrate --from sqlite://data/voicescribe.db --to postgres://localhost/voicescribe`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Load()
		if err != nil {
			return err
		}
		defer cmdutil.Sync(logger)

		if to == "" {
			to = cfg.Storage.DatabaseURL
		}
		if to == from {
			return fmt.Errorf("source and destination are the same: %s", from)
		}

		ctx := cmd.Context()
		src, err := app.OpenHistoryStore(ctx, from)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		dst, err := app.OpenHistoryStore(ctx, to)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		importer, ok := dst.(repository.Importer)
		if !ok {
			return fmt.Errorf("destination %s cannot import records", to)
		}

		copied, err := migrate.Copy(ctx, src, importer, batchSize, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "copied %d transcripts\n", copied)
		return nil
	},
}
