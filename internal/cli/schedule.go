package cli

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"homehub/internal/brainboost"
	"homehub/internal/logging"
	"homehub/internal/scheduler"
	"homehub/internal/telegram"
)

var scheduleRunNow bool

func init() {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily generation on a cron schedule",
		Long: "Runs until interrupted, generating content on BOOST_SCHEDULE in BOOST_TIMEZONE. " +
			"When a Telegram bot is configured it also answers /today and /boost.",
		RunE: runSchedule,
	}
	cmd.Flags().BoolVar(&scheduleRunNow, "now", false, "Also run once immediately")

	RootCmd.AddCommand(cmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if err := requireLLM(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger := logging.From(ctx)

	var bot *telegram.Bot
	var notifiers []brainboost.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		b, err := telegram.New(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.OutputDir, nil, nil)
		if err != nil {
			logger.Warn("telegram bot disabled", "error", err)
		} else {
			bot = b
			if n := telegramNotifier(ctx, cfg, b.API()); n != nil {
				notifiers = append(notifiers, n)
			}
		}
	}

	gen, closer, err := buildGenerator(ctx, cfg, notifiers...)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	// scheduled and chat-triggered runs share the output directories
	var mu sync.Mutex
	run := func(ctx context.Context) (*brainboost.Report, error) {
		mu.Lock()
		defer mu.Unlock()
		return gen.Run(ctx)
	}

	sched := scheduler.New(cfg.Schedule, cfg.Location())
	sched.SetJob(func(ctx context.Context) error {
		_, err := run(ctx)
		return err
	})
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	if bot != nil {
		bot.Configure(gen.Catalog.Names(), run)
		go bot.Start(ctx)
		logger.Info("🤖 telegram bot listening", "chat_id", cfg.TelegramChatID)
	}

	if scheduleRunNow {
		if _, err := run(ctx); err != nil {
			logger.Error("initial run failed", "error", err)
		}
	}

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
