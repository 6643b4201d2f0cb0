package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voicescribe/cmd/voicescribe/cmd/cmdutil"
	"voicescribe/internal/app"
)

var port string

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API

- POST /api/transcribe accepts one audio file in the "audio" field
- GET /api/history lists transcripts newest first
- Stops gracefully on SIGINT or SIGTERM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Load()
		if err != nil {
			return err
		}
		defer cmdutil.Sync(logger)

		if port != "" {
			cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, cleanup, err := app.InitializeServer(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}
		defer cleanup()

		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr(), err)
		}

		<-ctx.Done()
		logger.Info("shutdown signal received", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
