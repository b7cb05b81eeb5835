package brainboost

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"

	"homehub/internal/assets"
	"homehub/internal/content"
	"homehub/internal/history"
	"homehub/internal/llm"
)

// Fetcher turns an image URL into bytes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Restarter interface {
	Restart(ctx context.Context) error
}

// Notifier receives the finished report, e.g. to post a digest.
type Notifier interface {
	Notify(ctx context.Context, r *Report) error
}

type Options struct {
	OutputDir      string
	HistoryDays    int
	RetentionCount int
	WordRetryLimit int
	EnableImages   bool
	CompactHistory bool
	JokeURL        string
}

// Generator runs one brain-boost cycle. Text, Images, Fetch, Store, Tracker,
// Rotator and Catalog are required; the rest are optional.
type Generator struct {
	Opts    Options
	Catalog *content.Catalog
	Text    llm.Client
	Images  llm.ImageGenerator
	Fetch   Fetcher
	Store   history.Store
	Tracker *history.Tracker
	Rotator *assets.Rotator

	Restarter Restarter
	Notifiers []Notifier

	JokeClient *http.Client
	Now        func() time.Time
	Rand       *rand.Rand
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// Report summarizes a run. Texts and Images are keyed by kind.
type Report struct {
	Token        assets.RunToken
	Texts        map[string]string
	Images       map[string]assets.Stored
	Failures     []string
	WordFallback bool
	Pruned       int
}

func newReport(token assets.RunToken) *Report {
	return &Report{
		Token:  token,
		Texts:  map[string]string{},
		Images: map[string]assets.Stored{},
	}
}

func (r *Report) fail(what string) {
	r.Failures = append(r.Failures, what)
}
