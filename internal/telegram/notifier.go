package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/goerr/v2"

	"homehub/internal/brainboost"
	"homehub/internal/logging"
)

// maxMessage stays under Telegram's 4096 character limit.
const maxMessage = 4000

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts the run digest, and optionally the new images, to one chat.
type Notifier struct {
	s          sender
	chatID     int64
	withImages bool
}

func NewNotifier(api *tgbotapi.BotAPI, chatID int64, withImages bool) *Notifier {
	return &Notifier{s: api, chatID: chatID, withImages: withImages}
}

func (n *Notifier) Notify(ctx context.Context, r *brainboost.Report) error {
	if _, err := n.s.Send(tgbotapi.NewMessage(n.chatID, Digest(r))); err != nil {
		return goerr.Wrap(err, "send digest", goerr.V("chat", n.chatID))
	}
	if !n.withImages {
		return nil
	}
	for _, kind := range sortedKeys(r.Images) {
		photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FilePath(r.Images[kind].Served))
		photo.Caption = kind
		if _, err := n.s.Send(photo); err != nil {
			logging.From(ctx).Warn("failed to send photo", "kind", kind, "error", err)
		}
	}
	return nil
}

// Digest renders the report as a plain-text message.
func Digest(r *brainboost.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧠 Daily Brain Boost (%s)\n", r.Token.Day())
	for _, kind := range sortedKeys(r.Texts) {
		fmt.Fprintf(&b, "\n%s: %s\n", title(kind), r.Texts[kind])
	}
	if r.WordFallback {
		b.WriteString("\n⚠️ word fell back to the default\n")
	}
	if len(r.Failures) > 0 {
		fmt.Fprintf(&b, "\n❌ failed: %s\n", strings.Join(r.Failures, ", "))
	}
	return truncate(b.String(), maxMessage)
}

func title(kind string) string {
	words := strings.Split(kind, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
