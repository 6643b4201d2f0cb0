package upload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"voicescribe/cmd/voicescribe/cmd/cmdutil"
	"voicescribe/internal/app/audio"
	"voicescribe/internal/client"
)

var serverURL string

func init() {
	Cmd.Flags().StringVarP(&serverURL, "server", "s", "", "server base URL (default http://localhost:$PORT)")
}

// Cmd represents the upload command
var Cmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Send one audio file to a running voicescribe server",
	Long: `Send one audio file to a running voicescribe server

- Files that are not audio are refused before anything is sent
- Prints the transcript and the refreshed history`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Load()
		if err != nil {
			return err
		}
		defer cmdutil.Sync(logger)

		base := serverURL
		if base == "" {
			base = "http://localhost:" + cfg.Server.Port
		}
		c, err := client.New(base, client.WithLogger(logger))
		if err != nil {
			return err
		}

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		session := client.NewSession(c, 5)
		capture := client.Capture{
			Filename:    filepath.Base(path),
			ContentType: audio.TypeByExtension(path),
			Data:        data,
		}
		if err := session.SelectFile(capture); err != nil {
			return fmt.Errorf("%s: %s", capture.Filename, session.Notice())
		}

		text, err := session.Transcribe(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s (%w)", session.Notice(), err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, text)
		if recent := session.History(); len(recent) > 0 {
			fmt.Fprintln(out, "\nrecent:")
			for _, r := range recent {
				fmt.Fprintf(out, "  #%d %s\n", r.ID, r.Text)
			}
		}
		return nil
	},
}
