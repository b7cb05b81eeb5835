package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"homehub/internal/brainboost"
	"homehub/internal/logging"
)

var (
	boostNoImages  bool
	boostNoRestart bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "boost",
		Short: "Generate today's brain-boost content once",
		RunE:  runBoost,
	}
	cmd.Flags().BoolVar(&boostNoImages, "no-images", false, "Skip image generation")
	cmd.Flags().BoolVar(&boostNoRestart, "no-restart", false, "Do not restart Home Assistant afterwards")

	RootCmd.AddCommand(cmd)
}

func runBoost(cmd *cobra.Command, args []string) error {
	if err := requireLLM(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if boostNoImages {
		cfg.EnableImages = false
	}
	if boostNoRestart {
		cfg.RestartContainer = false
	}

	var notifiers []brainboost.Notifier
	if n := telegramNotifier(ctx, cfg, nil); n != nil {
		notifiers = append(notifiers, n)
	}
	gen, closer, err := buildGenerator(ctx, cfg, notifiers...)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	report, err := gen.Run(ctx)
	if err != nil {
		return err
	}
	logging.From(ctx).Info("=== Brain Boost Complete ===",
		"texts", len(report.Texts),
		"images", len(report.Images),
		"pruned", report.Pruned)
	if len(report.Failures) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "completed with failures: %v\n", report.Failures)
	}
	return nil
}
