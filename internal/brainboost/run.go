package brainboost

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"homehub/internal/assets"
	"homehub/internal/content"
	"homehub/internal/history"
	"homehub/internal/llm"
	"homehub/internal/logging"
	"homehub/internal/retry"
)

const textTemperature = 0.7

// Run performs one full cycle. Per-item failures are collected on the report;
// only history persistence and setup errors are returned.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	logger := logging.From(ctx)
	token := assets.NewRunToken(g.now())
	report := newReport(token)

	logger.Info("=== Daily Brain Boost Generator Starting ===", "token", token.String())

	if err := os.MkdirAll(g.Opts.OutputDir, 0o755); err != nil {
		return report, goerr.Wrap(err, "ensure output dir", goerr.V("dir", g.Opts.OutputDir))
	}

	kinds := g.Catalog.Names()
	report.Pruned = len(g.Rotator.Prune(ctx, g.Rotator.KindPatterns(kinds), g.Opts.RetentionCount))

	log := migrateLegacyKeys(g.Store.Load(ctx))

	var order []string
	for _, kind := range g.Catalog.Kinds {
		if kind.Name == content.KindWord {
			continue
		}
		logger.Info("generating", "kind", kind.Name)
		text, err := g.generateText(ctx, log, kind)
		if err != nil {
			logger.Error("✗ failed to generate", "kind", kind.Name, "error", err)
			report.fail(kind.Name)
			continue
		}
		g.record(ctx, report, kind.Name, text)
		order = append(order, kind.Name)
	}

	logger.Info("generating", "kind", content.KindJoke)
	g.record(ctx, report, content.KindJoke, g.fetchJoke(ctx))
	order = append(order, content.KindJoke)

	if word, ok := g.Catalog.Get(content.KindWord); ok {
		logger.Info("generating", "kind", content.KindWord)
		g.runWord(ctx, token, log, word, report)
	}

	if g.Opts.EnableImages && g.Images != nil {
		logger.Info("generating artistic images")
		for _, name := range order {
			if kind, ok := g.Catalog.Get(name); ok && kind.NoImage {
				continue
			}
			text := report.Texts[name]
			if !content.Illustratable(text) {
				continue
			}
			stored, err := g.illustrate(ctx, token, name, text)
			if err != nil {
				logger.Warn("image generation failed", "kind", name, "error", err)
				report.fail(name + " image")
				continue
			}
			report.Images[name] = stored
		}
	}

	for _, name := range kinds {
		if text, ok := report.Texts[name]; ok && text != "" {
			g.Tracker.Append(log, name, text)
		}
	}
	if g.Opts.CompactHistory {
		if n := g.Tracker.Compact(log, g.Opts.HistoryDays); n > 0 {
			logger.Info("compacted history", "removed", n)
		}
	}
	if err := g.Store.Save(ctx, log); err != nil {
		return report, goerr.Wrap(err, "save history")
	}

	if _, err := g.Rotator.WriteTimestamp(token); err != nil {
		logger.Error("timestamp file not written", "error", err)
		report.fail("timestamp")
	} else {
		logger.Info("timestamp file written", "token", token.String())
	}

	logger.Info("=== Generation Complete ===", "token", token.String(), "failures", len(report.Failures))

	if g.Restarter != nil {
		logger.Info("restarting Home Assistant to clear cache")
		if err := g.Restarter.Restart(ctx); err != nil {
			logger.Error("failed to restart Home Assistant", "error", err)
			report.fail("restart")
		}
	}
	for _, n := range g.Notifiers {
		if err := n.Notify(ctx, report); err != nil {
			logger.Warn("notification failed", "error", err)
		}
	}
	return report, nil
}

func (g *Generator) generateText(ctx context.Context, log history.Log, kind content.Kind) (string, error) {
	examples := g.Tracker.RecentExamples(log, kind.Name, g.Opts.HistoryDays)
	prompt := kind.Render(g.now(), history.AvoidHint(examples))
	text, err := llm.Ask(ctx, g.Text, g.Catalog.System, prompt,
		llm.Options{MaxTokens: kind.MaxTokens, Temperature: textTemperature})
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", goerr.New("empty completion", goerr.V("kind", kind.Name))
	}
	return text, nil
}

// record writes {output}/{kind}.txt and keeps the text on the report.
func (g *Generator) record(ctx context.Context, report *Report, kind, text string) {
	report.Texts[kind] = text
	p := filepath.Join(g.Opts.OutputDir, kind+".txt")
	if err := os.WriteFile(p, []byte(text+"\n"), 0o644); err != nil {
		logging.From(ctx).Error("✗ failed to write content", "kind", kind, "error", err)
		report.fail(kind + " write")
		return
	}
	logging.From(ctx).Info("✓ generated", "kind", kind)
}

type wordResult struct {
	text  string
	image assets.Stored
	drawn bool
}

// runWord regenerates the word until its illustration succeeds. Without
// images any produced word is accepted.
func (g *Generator) runWord(ctx context.Context, token assets.RunToken, log history.Log, kind content.Kind, report *Report) {
	logger := logging.From(ctx)
	withImages := g.Opts.EnableImages && g.Images != nil

	produce := func(ctx context.Context, attempt int) (wordResult, error) {
		text, err := g.generateText(ctx, log, kind)
		if err != nil {
			logger.Warn("word text failed", "attempt", attempt, "error", err)
			return wordResult{}, err
		}
		if !withImages {
			return wordResult{text: text}, nil
		}
		word := content.ExtractWord(text)
		stored, err := g.illustrate(ctx, token, content.KindWord, word)
		if err != nil {
			logger.Warn("word image failed", "word", word, "attempt", attempt, "error", err)
			return wordResult{}, err
		}
		return wordResult{text: text, image: stored, drawn: true}, nil
	}

	fallback := func(ctx context.Context, lastErr error) (wordResult, error) {
		logger.Warn("using fallback word", "error", lastErr)
		res := wordResult{text: content.FallbackWordText}
		if !withImages {
			return res, nil
		}
		stored, err := g.illustrate(ctx, token, content.KindWord, content.FallbackWordSubject)
		if err != nil {
			logger.Warn("fallback word image failed", "error", err)
			stored, err = g.storePlaceholder(ctx, token, content.KindWord)
			if err != nil {
				return res, err
			}
		}
		res.image, res.drawn = stored, true
		return res, nil
	}

	res := retry.WithFallback(ctx, g.Opts.WordRetryLimit, produce, fallback)
	report.WordFallback = res.Fallback
	if res.Fallback && res.Err != nil && !res.Value.drawn && withImages {
		report.fail("word image")
	}
	g.record(ctx, report, content.KindWord, res.Value.text)
	if res.Value.drawn {
		report.Images[content.KindWord] = res.Value.image
	}
}

// migrateLegacyKeys folds "fact.txt" style keys written by earlier versions
// into plain kind names, preserving entry order.
func migrateLegacyKeys(log history.Log) history.Log {
	var legacy []string
	for key := range log {
		if kind, ok := strings.CutSuffix(key, ".txt"); ok && kind != "" {
			legacy = append(legacy, key)
		}
	}
	sort.Strings(legacy)
	for _, key := range legacy {
		kind := strings.TrimSuffix(key, ".txt")
		entries := log[key]
		merged := make([]history.Entry, 0, len(entries)+len(log[kind]))
		merged = append(merged, entries...)
		log[kind] = append(merged, log[kind]...)
		delete(log, key)
	}
	return log
}
