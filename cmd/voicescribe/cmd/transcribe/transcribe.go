package transcribe

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"voicescribe/cmd/voicescribe/cmd/cmdutil"
	"voicescribe/internal/app"
	"voicescribe/internal/app/converter"
	"voicescribe/internal/app/util/files"
)

var (
	parallel     int
	showProgress bool
)

func init() {
	Cmd.Flags().IntVarP(&parallel, "parallel", "j", 2, "number of files transcribed at once")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "show progress bars even when stderr is not a terminal")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <file|dir>...",
	Short: "Transcribe local audio files",
	Long: `Transcribe local audio files

- Directories contribute the audio files directly inside them
- Files run through the same pipeline as uploads and land in the history
- Exits non-zero when any file fails`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Load()
		if err != nil {
			return err
		}
		defer cmdutil.Sync(logger)

		inputs, err := files.CollectAudioFiles(args)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no audio files found in %s", strings.Join(args, ", "))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		progress := converter.ProgressConfig{
			Enabled: converter.ShouldShowProgress(showProgress),
			Writer:  cmd.ErrOrStderr(),
		}
		conv, cleanup, err := app.InitializeConverter(ctx, cfg, logger, progress)
		if err != nil {
			return err
		}
		defer cleanup()

		results := conv.TranscribeFiles(ctx, inputs, parallel)
		summary := converter.Summarize(results)
		PrintResults(cmd.OutOrStdout(), results, summary)

		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
		}
		return nil
	},
}

// PrintResults writes one block per file followed by the batch summary.
func PrintResults(w io.Writer, results []converter.FileResult, summary converter.Summary) {
	for _, r := range results {
		if !r.Succeeded() {
			reason := "no transcript"
			if r.Err != nil {
				reason = r.Err.Error()
			}
			fmt.Fprintf(w, "✗ %s: %s\n", r.File.Name, reason)
			continue
		}
		fmt.Fprintf(w, "✓ %s\n", r.File.Name)
		if r.Result.Text != "" {
			fmt.Fprintf(w, "  %s\n", r.Result.Text)
		}
	}

	fmt.Fprintf(w, "\n%d files: %d transcribed, %d failed\n", summary.Total, summary.Succeeded, summary.Failed)
	if summary.Unpersisted > 0 {
		fmt.Fprintf(w, "warning: %d transcripts were not saved to history\n", summary.Unpersisted)
	}
}
