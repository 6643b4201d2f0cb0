package history

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"voicescribe/cmd/voicescribe/cmd/cmdutil"
	"voicescribe/internal/app"
	"voicescribe/internal/app/converter/export"
	"voicescribe/internal/app/model"
)

const previewRunes = 80

var (
	limit  int
	format string
)

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of transcripts to show, 0 for all")
	Cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, csv or json")
}

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List stored transcripts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		if format == "table" {
			return PrintTable(cmd.OutOrStdout(), records)
		}
		f, err := export.ParseFormat(format)
		if err != nil || f == export.FormatXLSX {
			return fmt.Errorf("unsupported history format %q: use table, csv or json", format)
		}
		return export.Write(cmd.OutOrStdout(), f, records)
	},
}

// PrintTable writes records as aligned columns with single-line previews.
func PrintTable(w io.Writer, records []model.Transcript) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTEXT")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.CreatedAt.Local().Format(time.DateTime), preview(r.Text))
	}
	return tw.Flush()
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "(silence)"
	}
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes-1]) + "…"
}
