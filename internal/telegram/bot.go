package telegram

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homehub/internal/brainboost"
	"homehub/internal/logging"
)

const helpText = "Commands:\n/today - current dashboard content\n/boost - generate new content now"

// RunFunc starts one generation cycle.
type RunFunc func(ctx context.Context) (*brainboost.Report, error)

// Bot answers commands from the configured chat only.
type Bot struct {
	api       *tgbotapi.BotAPI
	s         sender
	chatID    int64
	outputDir string
	kinds     []string
	run       RunFunc
}

func New(botToken string, chatID int64, outputDir string, kinds []string, run RunFunc) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:       api,
		s:         api,
		chatID:    chatID,
		outputDir: outputDir,
		kinds:     kinds,
		run:       run,
	}, nil
}

// Configure sets the kinds listed by /today and the function behind /boost.
func (b *Bot) Configure(kinds []string, run RunFunc) {
	b.kinds = kinds
	b.run = run
}

// API exposes the underlying client so a Notifier can share it.
func (b *Bot) API() *tgbotapi.BotAPI { return b.api }

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	logger := logging.From(ctx)
	if msg.Chat == nil || msg.Chat.ID != b.chatID {
		if msg.From != nil {
			logger.Warn("unauthorized access attempt", "user_id", msg.From.ID, "username", msg.From.UserName)
		}
		return
	}
	if !msg.IsCommand() {
		b.sendMessage(ctx, helpText)
		return
	}

	switch msg.Command() {
	case "today":
		b.sendMessage(ctx, b.today())
	case "boost":
		if b.run == nil {
			b.sendMessage(ctx, "generation is not available")
			return
		}
		b.sendMessage(ctx, "⏳ generating...")
		report, err := b.run(ctx)
		if err != nil {
			logger.Error("run from chat failed", "error", err)
			b.sendMessage(ctx, "❌ generation failed: "+err.Error())
			return
		}
		b.sendMessage(ctx, Digest(report))
	default:
		b.sendMessage(ctx, helpText)
	}
}

// today reads {outputDir}/{kind}.txt for every kind that has been produced.
func (b *Bot) today() string {
	var parts []string
	for _, kind := range b.kinds {
		data, err := os.ReadFile(filepath.Join(b.outputDir, kind+".txt"))
		if err != nil {
			continue
		}
		parts = append(parts, title(kind)+": "+strings.TrimSpace(string(data)))
	}
	if len(parts) == 0 {
		return "No content yet."
	}
	return truncate(strings.Join(parts, "\n\n"), maxMessage)
}

func (b *Bot) sendMessage(ctx context.Context, text string) {
	if _, err := b.s.Send(tgbotapi.NewMessage(b.chatID, text)); err != nil {
		logging.From(ctx).Error("failed to send message", "error", err)
	}
}
