// Package cmdutil holds what every voicescribe subcommand shares: global
// flags, configuration loading and the logger.
package cmdutil

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voicescribe/internal/app/common"
	"voicescribe/internal/config"
)

var (
	configFile string
	verbose    bool
)

// AddPersistentFlags registers --config and --verbose on the root command.
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"YAML config file (overrides $"+config.ConfigFileEnv+")")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "verbose output")
}

// Load reads .env, the optional YAML file and the environment, then builds
// the logger. --verbose forces the development logger.
func Load() (config.Config, *zap.Logger, error) {
	envFile, err := config.LoadEnv()
	if err != nil {
		return config.Config{}, nil, err
	}

	cfg, err := config.Loader{File: configFile}.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := common.NewLogger(verbose || cfg.Server.IsDevelopment())
	if err != nil {
		return config.Config{}, nil, err
	}
	if envFile != "" {
		logger.Debug("loaded environment file", zap.String("path", envFile))
	}
	return cfg, logger, nil
}

// Sync flushes the logger; stderr sync errors on terminals are ignored.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}
