package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"voicescribe/cmd/voicescribe/cmd/cmdutil"
	"voicescribe/cmd/voicescribe/cmd/export"
	"voicescribe/cmd/voicescribe/cmd/history"
	"voicescribe/cmd/voicescribe/cmd/migrate"
	"voicescribe/cmd/voicescribe/cmd/serve"
	"voicescribe/cmd/voicescribe/cmd/transcribe"
	"voicescribe/cmd/voicescribe/cmd/upload"
	"voicescribe/cmd/voicescribe/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voicescribe",
	Short: "Record or upload audio and turn it into text",
	Long: `voicescribe transcribes short audio recordings with a hosted speech-to-text
provider and keeps every transcript in a history store.

- serve runs the HTTP API used by the web client
- transcribe runs local files through the same pipeline
- history, export and migrate work on the stored transcripts`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(history.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(upload.Cmd)
	rootCmd.AddCommand(migrate.Cmd)
	rootCmd.AddCommand(version.Cmd)

	cmdutil.AddPersistentFlags(rootCmd)
}
