// Package cli implements the homehub commands.
package cli

import (
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"homehub/internal/config"
	"homehub/internal/logging"
)

var (
	envFile  string
	logLevel string

	cfg       *config.Config
	logCloser io.Closer
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "homehub",
	Short: "Daily AI content for a Home Assistant dashboard",
	Long: "homehub generates the daily brain-boost texts and artwork shown on a Home Assistant " +
		"dashboard, and bundles the calendar, recipe and standalone hub tools around it.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Extra .env file checked before the default locations")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $LOG_LEVEL)")
}

// setup loads .env and config, then installs the logger on the command context.
func setup(cmd *cobra.Command, args []string) error {
	candidates := config.EnvCandidates()
	if envFile != "" {
		candidates = append([]string{envFile}, candidates...)
	}
	loaded, err := config.LoadDotEnv(candidates)
	if err != nil {
		return err
	}

	c, err := config.New()
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	cfg = c

	w, closer, teeErr := logging.Tee(c.LogFile)
	if teeErr != nil {
		w, closer = os.Stdout, nil
	}
	logCloser = closer
	logger := logging.New(c.LogLevel, w)
	logging.SetDefault(logger)
	cmd.SetContext(logging.With(cmd.Context(), logger))

	if teeErr != nil {
		// the log file usually lives on removable storage
		logger.Warn("log file unavailable, logging to stdout only", "error", teeErr)
	}

	if loaded != "" {
		logger.Debug("loaded env file", "path", loaded)
	} else {
		logger.Debug("no .env file found, using process environment")
	}
	return nil
}

// requireLLM fails early when the selected provider has no credentials.
func requireLLM() error {
	if cfg == nil {
		return goerr.New("config not loaded")
	}
	return cfg.Validate()
}
