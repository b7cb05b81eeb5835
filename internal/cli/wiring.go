package cli

import (
	"context"
	"io"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homehub/internal/assets"
	"homehub/internal/brainboost"
	"homehub/internal/config"
	"homehub/internal/content"
	"homehub/internal/download"
	"homehub/internal/history"
	"homehub/internal/homeassistant"
	"homehub/internal/llm"
	"homehub/internal/logging"
	"homehub/internal/storage"
	"homehub/internal/telegram"
)

// openHistory returns the configured history backend.
func openHistory(c *config.Config) (history.Store, io.Closer, error) {
	return history.Open(string(c.HistoryBackend), c.HistoryFile)
}

func loadCatalog(ctx context.Context, c *config.Config) (*content.Catalog, error) {
	if c.PromptsPath == "" {
		return content.DefaultCatalog(), nil
	}
	cat, err := content.LoadCatalog(c.PromptsPath)
	if err != nil {
		return nil, err
	}
	logging.From(ctx).Info("loaded prompt catalog", "path", c.PromptsPath, "kinds", len(cat.Kinds))
	return cat, nil
}

// textClient returns the configured text model and, when images are enabled,
// the OpenAI image generator.
func textClient(c *config.Config) (llm.Client, llm.ImageGenerator, error) {
	factory := llm.NewFactory(c)
	text, err := factory.CreateClient(string(c.LLMProvider), c.TextModel)
	if err != nil {
		return nil, nil, err
	}
	if !c.ImagesEnabled() {
		return text, nil, nil
	}
	return text, factory.OpenAI(c.TextModel), nil
}

// buildGenerator wires one brain-boost generator from config. The returned
// closer releases the history backend.
func buildGenerator(ctx context.Context, c *config.Config, notifiers ...brainboost.Notifier) (*brainboost.Generator, io.Closer, error) {
	catalog, err := loadCatalog(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	text, images, err := textClient(c)
	if err != nil {
		return nil, nil, err
	}
	store, closer, err := openHistory(c)
	if err != nil {
		return nil, nil, err
	}
	rotator, err := assets.NewRotator(c.ServedDir, c.ArchiveDir, c.ImageExt)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	logging.From(ctx).Debug("asset pointer selected", "via", rotator.Pointer.Name())

	if c.RunJournal != "" {
		journal, err := storage.NewFileJournal(c.RunJournal)
		if err != nil {
			logging.From(ctx).Warn("run journal disabled", "path", c.RunJournal, "error", err)
		} else {
			notifiers = append(notifiers, &storage.Recorder{Journal: journal})
		}
	}

	gen := &brainboost.Generator{
		Opts: brainboost.Options{
			OutputDir:      c.OutputDir,
			HistoryDays:    c.HistoryDays,
			RetentionCount: c.RetentionCount,
			WordRetryLimit: c.WordRetryLimit,
			EnableImages:   images != nil,
			CompactHistory: c.HistoryCompact,
			JokeURL:        c.JokeURL,
		},
		Catalog:   catalog,
		Text:      text,
		Images:    images,
		Fetch:     download.New(c.DownloadTimeout),
		Store:     store,
		Tracker:   history.NewTracker(c.HistoryExamples),
		Rotator:   rotator,
		Notifiers: notifiers,
		Now:       time.Now,
	}
	if c.RestartContainer {
		gen.Restarter = homeassistant.NewDockerRestarter(c.ContainerName)
	}
	return gen, closer, nil
}

// telegramNotifier returns nil when no bot is configured.
func telegramNotifier(ctx context.Context, c *config.Config, api *tgbotapi.BotAPI) brainboost.Notifier {
	if c.TelegramBotToken == "" || c.TelegramChatID == 0 {
		return nil
	}
	if api == nil {
		var err error
		api, err = tgbotapi.NewBotAPI(c.TelegramBotToken)
		if err != nil {
			logging.From(ctx).Warn("telegram disabled", "error", err)
			return nil
		}
	}
	return telegram.NewNotifier(api, c.TelegramChatID, c.ImagesEnabled())
}
